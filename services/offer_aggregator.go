package services

import (
	"context"
	"sync"

	"github.com/carrentals/offer-backend/models"
	"github.com/carrentals/offer-backend/shared"
	"github.com/sirupsen/logrus"
)

// Supplier fetch contracts consumed by the aggregator. The concrete supplier services
// in this package satisfy them; tests substitute stubs.
type BestRentalsClient interface {
	GetAvailableCars(ctx context.Context) ([]BestRentalsOffer, error)
}

type SouthRentalsClient interface {
	GetAvailableCars(ctx context.Context) ([]SouthRentalsOffer, error)
}

type NorthernRentalsClient interface {
	GetAvailableCars(ctx context.Context) ([]NorthernRentalsOffer, error)
}

// CarOfferAggregator fetches offers from every supplier concurrently and normalizes
// them into one list. A failing supplier contributes zero offers for that cycle and
// never affects its siblings, so aggregation as a whole cannot fail.
type CarOfferAggregator struct {
	bestRentals     BestRentalsClient
	southRentals    SouthRentalsClient
	northernRentals NorthernRentalsClient
	metrics         *shared.RetrievalMetrics
}

// NewCarOfferAggregator creates an aggregator over the three supplier adapters.
func NewCarOfferAggregator(
	bestRentals BestRentalsClient,
	southRentals SouthRentalsClient,
	northernRentals NorthernRentalsClient,
	metrics *shared.RetrievalMetrics,
) *CarOfferAggregator {
	return &CarOfferAggregator{
		bestRentals:     bestRentals,
		southRentals:    southRentals,
		northernRentals: northernRentals,
		metrics:         metrics,
	}
}

// FetchOffersFromSuppliers fetches from all suppliers in parallel and concatenates the
// normalized results. All fetches start before any is awaited so supplier latencies
// overlap. Results land in fixed per-supplier slots, keeping the output deterministic
// for a fixed set of payloads regardless of completion order.
func (a *CarOfferAggregator) FetchOffersFromSuppliers(ctx context.Context) []models.CarOffer {
	results := make([][]models.CarOffer, 3)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		results[0] = a.bestRentalsOffers(ctx)
	}()
	go func() {
		defer wg.Done()
		results[1] = a.southRentalsOffers(ctx)
	}()
	go func() {
		defer wg.Done()
		results[2] = a.northernRentalsOffers(ctx)
	}()
	wg.Wait()

	var offers []models.CarOffer
	for _, supplierOffers := range results {
		offers = append(offers, supplierOffers...)
	}
	return offers
}

func (a *CarOfferAggregator) bestRentalsOffers(ctx context.Context) []models.CarOffer {
	dtos, err := a.bestRentals.GetAvailableCars(ctx)
	if err != nil {
		a.isolateSupplierFailure(models.SupplierBestRentals, err)
		return nil
	}

	offers := make([]models.CarOffer, 0, len(dtos))
	for _, dto := range dtos {
		offers = append(offers, MapBestRentalsOffer(dto))
	}
	return offers
}

func (a *CarOfferAggregator) southRentalsOffers(ctx context.Context) []models.CarOffer {
	dtos, err := a.southRentals.GetAvailableCars(ctx)
	if err != nil {
		a.isolateSupplierFailure(models.SupplierSouthRentals, err)
		return nil
	}

	offers := make([]models.CarOffer, 0, len(dtos))
	for _, dto := range dtos {
		offers = append(offers, MapSouthRentalsOffer(dto))
	}
	return offers
}

func (a *CarOfferAggregator) northernRentalsOffers(ctx context.Context) []models.CarOffer {
	dtos, err := a.northernRentals.GetAvailableCars(ctx)
	if err != nil {
		a.isolateSupplierFailure(models.SupplierNorthernRentals, err)
		return nil
	}

	offers := make([]models.CarOffer, 0, len(dtos))
	for _, dto := range dtos {
		offers = append(offers, MapNorthernRentalsOffer(dto))
	}
	return offers
}

// isolateSupplierFailure is the fan-out's failure boundary: the error is logged and
// counted, and the supplier contributes an empty result for this cycle.
func (a *CarOfferAggregator) isolateSupplierFailure(supplierName string, err error) {
	logrus.WithFields(logrus.Fields{
		"component": "CarOfferAggregator",
		"supplier":  supplierName,
	}).WithError(err).Error("Error fetching supplier offers")

	if a.metrics != nil {
		a.metrics.RecordSupplierFailure(supplierName)
	}
}
