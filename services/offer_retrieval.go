package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/carrentals/offer-backend/models"
	"github.com/carrentals/offer-backend/shared"
	"github.com/sirupsen/logrus"
)

// aggregatedOffersCacheKey is the fixed cache key holding the full aggregated offer set.
const aggregatedOffersCacheKey = "aggregated_car_offers"

// OfferAggregator is the live-aggregation tier contract. It never fails as a whole;
// supplier failures are isolated inside it.
type OfferAggregator interface {
	FetchOffersFromSuppliers(ctx context.Context) []models.CarOffer
}

// OfferRepository is the persistent-store contract consumed by the retrieval tiers.
type OfferRepository interface {
	GetCarOffers(ctx context.Context) ([]models.CarOffer, error)
	GetLastUpdateTime(ctx context.Context) (*time.Time, error)
	UpdateCarOffers(ctx context.Context, offers []models.CarOffer) error
}

// OfferFilter carries the optional request filters. Nil fields are not applied.
// Classification characters outside their SIPP reference table are silently ignored.
type OfferFilter struct {
	MinPrice            *float64
	MaxPrice            *float64
	CarCategory         *string
	CarBodyType         *string
	CarDriveType        *string
	CarFuelAirConSystem *string
}

// CarOfferRetrievalService answers offer reads through three tiers evaluated in strict
// order: fast cache, persistent store within the staleness window, live aggregation.
// Whichever tier produces the source set, filters and sorting apply only to the value
// returned to the caller; persisted and cached state is always the full set.
type CarOfferRetrievalService struct {
	aggregator      OfferAggregator
	repository      OfferRepository
	cache           *CacheService
	stalenessWindow time.Duration
	cacheTTL        time.Duration
	metrics         *shared.RetrievalMetrics
}

// NewCarOfferRetrievalService creates the retrieval orchestrator. The staleness window
// bounds how old persisted data may be before a re-aggregation; the cache TTL bounds
// how long a cached set is trusted.
func NewCarOfferRetrievalService(
	aggregator OfferAggregator,
	repository OfferRepository,
	cache *CacheService,
	stalenessWindow time.Duration,
	cacheTTL time.Duration,
	metrics *shared.RetrievalMetrics,
) *CarOfferRetrievalService {
	return &CarOfferRetrievalService{
		aggregator:      aggregator,
		repository:      repository,
		cache:           cache,
		stalenessWindow: stalenessWindow,
		cacheTTL:        cacheTTL,
		metrics:         metrics,
	}
}

// GetAvailableCars returns the available offers, filtered and ordered by price
// ascending with ties broken by supplier name. Infrastructure failures from the store
// are logged and returned; an empty aggregation is an empty success.
func (s *CarOfferRetrievalService) GetAvailableCars(ctx context.Context, filter OfferFilter) ([]models.CarOffer, error) {
	// Tier 1: a cached set is trusted within its TTL and never re-validated.
	if cached, found := s.cache.Get(aggregatedOffersCacheKey); found {
		if offers, ok := cached.([]models.CarOffer); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return applyFiltersAndSorting(offers, filter), nil
		}
	}

	// Tier 2: serve the store when its freshest record is inside the staleness window.
	lastUpdate, err := s.repository.GetLastUpdateTime(ctx)
	if err != nil {
		logrus.WithError(err).Error("An error occurred while reading offer freshness from the store")
		return nil, fmt.Errorf("failed to read offer freshness: %w", err)
	}

	if lastUpdate != nil && time.Since(*lastUpdate) <= s.stalenessWindow {
		dbOffers, err := s.repository.GetCarOffers(ctx)
		if err != nil {
			logrus.WithError(err).Error("An error occurred while loading offers from the store")
			return nil, fmt.Errorf("failed to load car offers: %w", err)
		}
		if len(dbOffers) > 0 {
			s.cache.SetWithTTL(aggregatedOffersCacheKey, dbOffers, s.cacheTTL)
			if s.metrics != nil {
				s.metrics.RecordStoreHit()
			}
			return applyFiltersAndSorting(dbOffers, filter), nil
		}
	}

	// Tier 3: aggregate live, persist the full set, cache it, then serve.
	offers, err := s.refreshFromSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return applyFiltersAndSorting(offers, filter), nil
}

// RefreshOffers forces a live aggregation, persisting and caching the result. Used by
// the background refresh job so interactive reads mostly hit the cache and store tiers.
func (s *CarOfferRetrievalService) RefreshOffers(ctx context.Context) (int, error) {
	offers, err := s.refreshFromSuppliers(ctx)
	if err != nil {
		return 0, err
	}
	return len(offers), nil
}

func (s *CarOfferRetrievalService) refreshFromSuppliers(ctx context.Context) ([]models.CarOffer, error) {
	aggregated := s.aggregator.FetchOffersFromSuppliers(ctx)
	if s.metrics != nil {
		s.metrics.RecordAggregation(len(aggregated))
	}

	if len(aggregated) == 0 {
		// Every supplier failed or reported nothing. The caller gets an empty
		// success; only infrastructure faults become request failures.
		logrus.Error("No car offers available from any supplier")
		return []models.CarOffer{}, nil
	}

	if err := s.repository.UpdateCarOffers(ctx, aggregated); err != nil {
		logrus.WithError(err).Error("An error occurred while persisting aggregated car offers")
		return nil, fmt.Errorf("failed to persist aggregated car offers: %w", err)
	}

	s.cache.SetWithTTL(aggregatedOffersCacheKey, aggregated, s.cacheTTL)

	return aggregated, nil
}

// applyFiltersAndSorting narrows the source set by the supplied filters and orders it
// by price ascending, then supplier name ascending. A classification filter whose
// character is not in the SIPP reference table for its dimension is ignored.
func applyFiltersAndSorting(offers []models.CarOffer, filter OfferFilter) []models.CarOffer {
	filtered := make([]models.CarOffer, 0, len(offers))
	for _, offer := range offers {
		if filter.MinPrice != nil && offer.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && offer.Price > *filter.MaxPrice {
			continue
		}
		if filter.CarCategory != nil && models.IsValidCarCategory(*filter.CarCategory) &&
			!matchesClassification(offer.CarCategory, *filter.CarCategory) {
			continue
		}
		if filter.CarBodyType != nil && models.IsValidCarBodyType(*filter.CarBodyType) &&
			!matchesClassification(offer.CarBodyType, *filter.CarBodyType) {
			continue
		}
		if filter.CarDriveType != nil && models.IsValidCarDriveType(*filter.CarDriveType) &&
			!matchesClassification(offer.CarDriveType, *filter.CarDriveType) {
			continue
		}
		if filter.CarFuelAirConSystem != nil && models.IsValidCarFuelAirConSystem(*filter.CarFuelAirConSystem) &&
			!matchesClassification(offer.CarFuelAirConSystem, *filter.CarFuelAirConSystem) {
			continue
		}
		filtered = append(filtered, offer)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Price != filtered[j].Price {
			return filtered[i].Price < filtered[j].Price
		}
		return filtered[i].SupplierName < filtered[j].SupplierName
	})

	return filtered
}

func matchesClassification(value *string, want string) bool {
	return value != nil && *value == want
}
