package jobs

import (
	"context"
	"time"

	"github.com/carrentals/offer-backend/services"
	"github.com/sirupsen/logrus"
)

// OfferRefreshJob periodically forces a live aggregation so the store and cache stay
// inside the staleness window and interactive requests rarely pay supplier latency.
type OfferRefreshJob struct {
	RetrievalService *services.CarOfferRetrievalService
}

func NewOfferRefreshJob(retrievalService *services.CarOfferRetrievalService) *OfferRefreshJob {
	return &OfferRefreshJob{RetrievalService: retrievalService}
}

func (j *OfferRefreshJob) Run() {
	logrus.Info("Starting car offer refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := j.RetrievalService.RefreshOffers(ctx)
	if err != nil {
		logrus.Errorf("Failed to run car offer refresh job: %v", err)
		return
	}

	if count == 0 {
		logrus.Warn("Car offer refresh job completed with no offers from any supplier")
		return
	}

	logrus.WithField("offer_count", count).Info("Car offer refresh job completed")
}
