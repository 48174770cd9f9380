package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carrentals/offer-backend/shared"
	"github.com/sirupsen/logrus"
)

// NorthernRentalsOffer is the raw offer record as Northern Rentals reports it.
type NorthernRentalsOffer struct {
	ID           *string `json:"id"`
	Price        float64 `json:"price"`
	Currency     *string `json:"currency"`
	VehicleName  *string `json:"vehicleName"`
	SippCode     *string `json:"sippCode"`
	Image        *string `json:"image"`
	SupplierLogo *string `json:"supplierLogo"`
}

// NorthernRentalsService fetches available car offers from the Northern Rentals API.
type NorthernRentalsService struct {
	httpClient  *http.Client
	requestURL  string
	rateLimiter *shared.HTTPRequestRateLimiter
}

// NewNorthernRentalsService creates the Northern Rentals supplier adapter.
func NewNorthernRentalsService(httpClient *http.Client, requestURL string, rateLimit time.Duration) (*NorthernRentalsService, error) {
	if strings.TrimSpace(requestURL) == "" {
		return nil, fmt.Errorf("Northern Rentals request URL is not configured")
	}

	return &NorthernRentalsService{
		httpClient:  httpClient,
		requestURL:  requestURL,
		rateLimiter: shared.NewHTTPRequestRateLimiter(rateLimit),
	}, nil
}

// GetAvailableCars fetches and decodes the current Northern Rentals offer list.
func (s *NorthernRentalsService) GetAvailableCars(ctx context.Context) ([]NorthernRentalsOffer, error) {
	s.rateLimiter.EnforceRateLimit()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Northern Rentals request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_FETCH_FAILED",
			fmt.Sprintf("HTTP request error while fetching available cars from %s", s.requestURL),
			"northern-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_BAD_STATUS",
			fmt.Sprintf("Northern Rentals responded with HTTP %d", response.StatusCode),
			"northern-rentals", "GetAvailableCars", nil)
		svcErr.LogError()
		return nil, svcErr
	}

	var offers []NorthernRentalsOffer
	if err := json.NewDecoder(response.Body).Decode(&offers); err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryProcessing, "SUPPLIER_DECODE_FAILED",
			fmt.Sprintf("JSON deserialization error while processing available cars from %s", s.requestURL),
			"northern-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}

	if len(offers) == 0 {
		logrus.WithField("supplier", "Northern Rentals").Warn("No available cars were found")
		return []NorthernRentalsOffer{}, nil
	}

	return offers, nil
}
