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

// BestRentalsOffer is the raw offer record as Best Rentals reports it.
type BestRentalsOffer struct {
	UniqueID           *string `json:"uniqueId"`
	RentalCost         float64 `json:"rentalCost"`
	RentalCostCurrency *string `json:"rentalCostCurrency"`
	Vehicle            *string `json:"vehicle"`
	Sipp               *string `json:"sipp"`
	ImageLink          *string `json:"imageLink"`
	Logo               *string `json:"logo"`
}

// BestRentalsService fetches available car offers from the Best Rentals API.
type BestRentalsService struct {
	httpClient  *http.Client
	requestURL  string
	rateLimiter *shared.HTTPRequestRateLimiter
}

// NewBestRentalsService creates the Best Rentals supplier adapter.
func NewBestRentalsService(httpClient *http.Client, requestURL string, rateLimit time.Duration) (*BestRentalsService, error) {
	if strings.TrimSpace(requestURL) == "" {
		return nil, fmt.Errorf("Best Rentals request URL is not configured")
	}

	return &BestRentalsService{
		httpClient:  httpClient,
		requestURL:  requestURL,
		rateLimiter: shared.NewHTTPRequestRateLimiter(rateLimit),
	}, nil
}

// GetAvailableCars fetches and decodes the current Best Rentals offer list. Transport
// and decode errors are returned to the caller; failure isolation happens in the
// aggregation fan-out, not here.
func (s *BestRentalsService) GetAvailableCars(ctx context.Context) ([]BestRentalsOffer, error) {
	s.rateLimiter.EnforceRateLimit()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Best Rentals request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_FETCH_FAILED",
			fmt.Sprintf("HTTP request error while fetching available cars from %s", s.requestURL),
			"best-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_BAD_STATUS",
			fmt.Sprintf("Best Rentals responded with HTTP %d", response.StatusCode),
			"best-rentals", "GetAvailableCars", nil)
		svcErr.LogError()
		return nil, svcErr
	}

	var offers []BestRentalsOffer
	if err := json.NewDecoder(response.Body).Decode(&offers); err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryProcessing, "SUPPLIER_DECODE_FAILED",
			fmt.Sprintf("JSON deserialization error while processing available cars from %s", s.requestURL),
			"best-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}

	if len(offers) == 0 {
		logrus.WithField("supplier", "Best Rentals").Warn("No available cars were found")
		return []BestRentalsOffer{}, nil
	}

	return offers, nil
}
