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

// SouthRentalsOffer is the raw offer record as South Rentals reports it.
type SouthRentalsOffer struct {
	QuoteNumber *string `json:"quoteNumber"`
	Price       float64 `json:"price"`
	Currency    *string `json:"currency"`
	VehicleName *string `json:"vehicleName"`
	AcrissCode  *string `json:"acrissCode"`
	ImageLink   *string `json:"imageLink"`
	LogoLink    *string `json:"logoLink"`
}

// SouthRentalsService fetches available car offers from the South Rentals API.
type SouthRentalsService struct {
	httpClient  *http.Client
	requestURL  string
	rateLimiter *shared.HTTPRequestRateLimiter
}

// NewSouthRentalsService creates the South Rentals supplier adapter.
func NewSouthRentalsService(httpClient *http.Client, requestURL string, rateLimit time.Duration) (*SouthRentalsService, error) {
	if strings.TrimSpace(requestURL) == "" {
		return nil, fmt.Errorf("South Rentals request URL is not configured")
	}

	return &SouthRentalsService{
		httpClient:  httpClient,
		requestURL:  requestURL,
		rateLimiter: shared.NewHTTPRequestRateLimiter(rateLimit),
	}, nil
}

// GetAvailableCars fetches and decodes the current South Rentals offer list.
func (s *SouthRentalsService) GetAvailableCars(ctx context.Context) ([]SouthRentalsOffer, error) {
	s.rateLimiter.EnforceRateLimit()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create South Rentals request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_FETCH_FAILED",
			fmt.Sprintf("HTTP request error while fetching available cars from %s", s.requestURL),
			"south-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		svcErr := shared.NewServiceError(shared.ErrorCategoryNetwork, "SUPPLIER_BAD_STATUS",
			fmt.Sprintf("South Rentals responded with HTTP %d", response.StatusCode),
			"south-rentals", "GetAvailableCars", nil)
		svcErr.LogError()
		return nil, svcErr
	}

	var offers []SouthRentalsOffer
	if err := json.NewDecoder(response.Body).Decode(&offers); err != nil {
		svcErr := shared.NewServiceError(shared.ErrorCategoryProcessing, "SUPPLIER_DECODE_FAILED",
			fmt.Sprintf("JSON deserialization error while processing available cars from %s", s.requestURL),
			"south-rentals", "GetAvailableCars", err)
		svcErr.LogError()
		return nil, svcErr
	}

	if len(offers) == 0 {
		logrus.WithField("supplier", "South Rentals").Warn("No available cars were found")
		return []SouthRentalsOffer{}, nil
	}

	return offers, nil
}
