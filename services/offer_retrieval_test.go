package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carrentals/offer-backend/models"
)

type stubAggregator struct {
	offers []models.CarOffer
	calls  int
}

func (s *stubAggregator) FetchOffersFromSuppliers(ctx context.Context) []models.CarOffer {
	s.calls++
	return s.offers
}

type stubRepository struct {
	offers     []models.CarOffer
	lastUpdate *time.Time

	getErr        error
	lastUpdateErr error
	updateErr     error

	getCalls        int
	lastUpdateCalls int
	updated         []models.CarOffer
	updateCalls     int
}

func (s *stubRepository) GetCarOffers(ctx context.Context) ([]models.CarOffer, error) {
	s.getCalls++
	return s.offers, s.getErr
}

func (s *stubRepository) GetLastUpdateTime(ctx context.Context) (*time.Time, error) {
	s.lastUpdateCalls++
	return s.lastUpdate, s.lastUpdateErr
}

func (s *stubRepository) UpdateCarOffers(ctx context.Context, offers []models.CarOffer) error {
	s.updateCalls++
	s.updated = offers
	return s.updateErr
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func offer(supplierOfferID string, price float64, supplierName string) models.CarOffer {
	return models.CarOffer{
		SupplierOfferID: supplierOfferID,
		Price:           price,
		SupplierName:    supplierName,
	}
}

func newRetrievalService(agg *stubAggregator, repo *stubRepository) (*CarOfferRetrievalService, *CacheService) {
	cache := NewCacheService(100)
	service := NewCarOfferRetrievalService(agg, repo, cache, 30*time.Minute, 30*time.Minute, nil)
	return service, cache
}

func TestGetAvailableCarsServesFromCacheFirst(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{offer("live-1", 1, "Best Rentals")}}
	repo := &stubRepository{
		offers:     []models.CarOffer{offer("db-1", 2, "Best Rentals")},
		lastUpdate: timePtr(time.Now()),
	}
	service, cache := newRetrievalService(agg, repo)

	cached := []models.CarOffer{offer("cached-1", 3, "Best Rentals")}
	cache.SetWithTTL("aggregated_car_offers", cached, time.Minute)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 1 || offers[0].SupplierOfferID != "cached-1" {
		t.Fatalf("got %v, want the cached offer set", offers)
	}
	if repo.lastUpdateCalls != 0 || repo.getCalls != 0 {
		t.Error("a populated cache must not touch the persistent store")
	}
	if agg.calls != 0 {
		t.Error("a populated cache must not trigger live aggregation")
	}
}

func TestGetAvailableCarsServesFreshStoreAndWarmsCache(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{offer("live-1", 1, "Best Rentals")}}
	repo := &stubRepository{
		offers:     []models.CarOffer{offer("db-1", 50, "Best Rentals")},
		lastUpdate: timePtr(time.Now().Add(-10 * time.Minute)),
	}
	service, cache := newRetrievalService(agg, repo)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 1 || offers[0].SupplierOfferID != "db-1" {
		t.Fatalf("got %v, want the stored offer set", offers)
	}
	if agg.calls != 0 {
		t.Error("fresh stored data must not trigger live aggregation")
	}
	if repo.updateCalls != 0 {
		t.Error("serving from the store must not write back to it")
	}
	if _, found := cache.Get("aggregated_car_offers"); !found {
		t.Error("a store-tier read should warm the cache")
	}
}

func TestGetAvailableCarsStaleStoreTriggersAggregation(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{
		offer("live-1", 10, "Best Rentals"),
		offer("live-2", 20, "South Rentals"),
	}}
	repo := &stubRepository{
		offers:     []models.CarOffer{offer("db-1", 50, "Best Rentals")},
		lastUpdate: timePtr(time.Now().Add(-31 * time.Minute)),
	}
	service, cache := newRetrievalService(agg, repo)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 2 || offers[0].SupplierOfferID != "live-1" {
		t.Fatalf("got %v, want the live aggregated set", offers)
	}
	if agg.calls != 1 {
		t.Errorf("aggregator calls = %d, want 1", agg.calls)
	}
	if repo.updateCalls != 1 || len(repo.updated) != 2 {
		t.Error("the full aggregated set should be persisted")
	}
	if _, found := cache.Get("aggregated_car_offers"); !found {
		t.Error("the aggregated set should be cached")
	}
}

func TestGetAvailableCarsEmptyStoreTimestampTriggersAggregation(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{offer("live-1", 10, "Best Rentals")}}
	repo := &stubRepository{lastUpdate: nil}
	service, _ := newRetrievalService(agg, repo)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agg.calls != 1 {
		t.Errorf("aggregator calls = %d, want 1 (empty store has no freshness)", agg.calls)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
}

func TestGetAvailableCarsFreshButEmptyStoreTriggersAggregation(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{offer("live-1", 10, "Best Rentals")}}
	repo := &stubRepository{
		offers:     []models.CarOffer{},
		lastUpdate: timePtr(time.Now()),
	}
	service, _ := newRetrievalService(agg, repo)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agg.calls != 1 {
		t.Errorf("aggregator calls = %d, want 1", agg.calls)
	}
	if len(offers) != 1 || offers[0].SupplierOfferID != "live-1" {
		t.Fatalf("got %v, want the live set", offers)
	}
}

func TestGetAvailableCarsEmptyAggregationIsEmptySuccess(t *testing.T) {
	agg := &stubAggregator{offers: nil}
	repo := &stubRepository{}
	service, cache := newRetrievalService(agg, repo)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("an empty aggregation must not be an error, got: %v", err)
	}

	if len(offers) != 0 {
		t.Fatalf("got %d offers, want 0", len(offers))
	}
	if repo.updateCalls != 0 {
		t.Error("an empty aggregation must not overwrite persisted offers")
	}
	if _, found := cache.Get("aggregated_car_offers"); found {
		t.Error("an empty aggregation must not be cached")
	}
}

func TestGetAvailableCarsStoreFreshnessErrorPropagates(t *testing.T) {
	agg := &stubAggregator{}
	repo := &stubRepository{lastUpdateErr: errors.New("connection reset")}
	service, _ := newRetrievalService(agg, repo)

	_, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err == nil {
		t.Fatal("expected a store freshness error")
	}
	if agg.calls != 0 {
		t.Error("a store failure must not fall through to live aggregation")
	}
}

func TestGetAvailableCarsStoreLoadErrorPropagates(t *testing.T) {
	repo := &stubRepository{
		lastUpdate: timePtr(time.Now()),
		getErr:     errors.New("relation does not exist"),
	}
	service, _ := newRetrievalService(&stubAggregator{}, repo)

	_, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err == nil {
		t.Fatal("expected a store load error")
	}
}

func TestGetAvailableCarsPersistErrorPropagates(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{offer("live-1", 10, "Best Rentals")}}
	repo := &stubRepository{updateErr: errors.New("deadlock detected")}
	service, cache := newRetrievalService(agg, repo)

	_, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err == nil {
		t.Fatal("expected a persistence error")
	}
	if _, found := cache.Get("aggregated_car_offers"); found {
		t.Error("a failed persist must not leave the set cached")
	}
}

func TestGetAvailableCarsPriceBoundsAreInclusive(t *testing.T) {
	service, cache := newRetrievalService(&stubAggregator{}, &stubRepository{})
	cache.SetWithTTL("aggregated_car_offers", []models.CarOffer{
		offer("a", 100, "Best Rentals"),
		offer("b", 150, "South Rentals"),
		offer("c", 200, "Northern Rentals"),
	}, time.Minute)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{
		MinPrice: floatPtr(120),
		MaxPrice: floatPtr(180),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 1 || offers[0].Price != 150 {
		t.Fatalf("got %v, want exactly the 150 offer", offers)
	}

	// Bounds equal to an offer price keep that offer.
	offers, err = service.GetAvailableCars(context.Background(), OfferFilter{
		MinPrice: floatPtr(100),
		MaxPrice: floatPtr(200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 3 {
		t.Fatalf("got %d offers, want 3 (bounds are inclusive)", len(offers))
	}
}

func TestGetAvailableCarsClassificationFilters(t *testing.T) {
	economy := offer("a", 100, "Best Rentals")
	economy.CarCategory = strPtr("E")
	compact := offer("b", 150, "South Rentals")
	compact.CarCategory = strPtr("C")
	unclassified := offer("c", 200, "Northern Rentals")

	service, cache := newRetrievalService(&stubAggregator{}, &stubRepository{})
	cache.SetWithTTL("aggregated_car_offers",
		[]models.CarOffer{economy, compact, unclassified}, time.Minute)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{
		CarCategory: strPtr("E"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 1 || offers[0].SupplierOfferID != "a" {
		t.Fatalf("got %v, want only the economy offer", offers)
	}
}

func TestGetAvailableCarsInvalidClassificationFilterIsIgnored(t *testing.T) {
	economy := offer("a", 100, "Best Rentals")
	economy.CarCategory = strPtr("E")
	compact := offer("b", 150, "South Rentals")
	compact.CarCategory = strPtr("C")

	service, cache := newRetrievalService(&stubAggregator{}, &stubRepository{})
	cache.SetWithTTL("aggregated_car_offers",
		[]models.CarOffer{economy, compact}, time.Minute)

	// "1" is not a SIPP category character, so the filter does not apply.
	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{
		CarCategory: strPtr("1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("got %d offers, want 2 (invalid filter characters are ignored)", len(offers))
	}
}

func TestGetAvailableCarsSortsByPriceThenSupplierName(t *testing.T) {
	service, cache := newRetrievalService(&stubAggregator{}, &stubRepository{})
	cache.SetWithTTL("aggregated_car_offers", []models.CarOffer{
		offer("c", 150, "South Rentals"),
		offer("a", 150, "Best Rentals"),
		offer("d", 100, "Northern Rentals"),
		offer("b", 150, "Northern Rentals"),
	}, time.Minute)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"d", "a", "b", "c"}
	if len(offers) != len(wantOrder) {
		t.Fatalf("got %d offers, want %d", len(offers), len(wantOrder))
	}
	for i, want := range wantOrder {
		if offers[i].SupplierOfferID != want {
			t.Errorf("position %d: got %q, want %q", i, offers[i].SupplierOfferID, want)
		}
	}
}

func TestGetAvailableCarsFilteringNeverMutatesTheCachedSet(t *testing.T) {
	service, cache := newRetrievalService(&stubAggregator{}, &stubRepository{})
	cache.SetWithTTL("aggregated_car_offers", []models.CarOffer{
		offer("a", 100, "Best Rentals"),
		offer("b", 150, "South Rentals"),
	}, time.Minute)

	if _, err := service.GetAvailableCars(context.Background(), OfferFilter{
		MinPrice: floatPtr(120),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("got %d offers after a filtered read, want the full set of 2", len(offers))
	}
}

func TestGetAvailableCarsEndToEndAcrossTiers(t *testing.T) {
	aggregator := NewCarOfferAggregator(
		&stubBestRentals{offers: []BestRentalsOffer{
			{UniqueID: strPtr("BR-1"), RentalCost: 100, Sipp: strPtr("ECMR")},
		}},
		&stubSouthRentals{offers: []SouthRentalsOffer{
			{QuoteNumber: strPtr("SR-1"), Price: 150},
		}},
		&stubNorthernRentals{err: errors.New("gateway timeout")},
		nil,
	)
	repo := &stubRepository{}
	cache := NewCacheService(100)
	service := NewCarOfferRetrievalService(aggregator, repo, cache, 30*time.Minute, 30*time.Minute, nil)

	offers, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 2 {
		t.Fatalf("got %d offers, want 2 (failing supplier isolated)", len(offers))
	}
	if offers[0].Price != 100 || offers[1].Price != 150 {
		t.Errorf("prices = [%v, %v], want [100, 150]", offers[0].Price, offers[1].Price)
	}
	assertStrField(t, "CarCategory", offers[0].CarCategory, "E")
	assertStrField(t, "CarBodyType", offers[0].CarBodyType, "C")
	assertStrField(t, "CarDriveType", offers[0].CarDriveType, "M")
	assertStrField(t, "CarFuelAirConSystem", offers[0].CarFuelAirConSystem, "R")
	if offers[1].CarCategory != nil {
		t.Error("an offer without a SIPP code should carry nil classifications")
	}

	if repo.updateCalls != 1 || len(repo.updated) != 2 {
		t.Error("the aggregated set should be persisted once")
	}

	// The follow-up read is a cache hit and never reaches the store or suppliers.
	repoReadsBefore := repo.lastUpdateCalls
	again, err := service.GetAvailableCars(context.Background(), OfferFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("got %d offers on the cached read, want 2", len(again))
	}
	if repo.lastUpdateCalls != repoReadsBefore {
		t.Error("the second read should be served from cache")
	}
}

func TestRefreshOffersPersistsAndReportsCount(t *testing.T) {
	agg := &stubAggregator{offers: []models.CarOffer{
		offer("live-1", 10, "Best Rentals"),
		offer("live-2", 20, "South Rentals"),
	}}
	repo := &stubRepository{}
	service, cache := newRetrievalService(agg, repo)

	count, err := service.RefreshOffers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if repo.updateCalls != 1 {
		t.Errorf("updateCalls = %d, want 1", repo.updateCalls)
	}
	if _, found := cache.Get("aggregated_car_offers"); !found {
		t.Error("a refresh should warm the cache")
	}
}
