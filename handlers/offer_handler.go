package handlers

import (
	"context"
	"strconv"

	"github.com/carrentals/offer-backend/models"
	"github.com/carrentals/offer-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// OfferRetriever is the read contract the handler needs from the retrieval service.
type OfferRetriever interface {
	GetAvailableCars(ctx context.Context, filter services.OfferFilter) ([]models.CarOffer, error)
}

type OfferHandler struct {
	Service OfferRetriever
}

func NewOfferHandler(service OfferRetriever) *OfferHandler {
	return &OfferHandler{Service: service}
}

// GetCarOffers serves GET /api/v1/offers. All six filter parameters are optional;
// malformed values are a client error, while infrastructure failures surface as a
// generic 500 without internal detail.
func (h *OfferHandler) GetCarOffers(c *fiber.Ctx) error {
	filter, err := parseOfferFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	offers, err := h.Service.GetAvailableCars(c.Context(), filter)
	if err != nil {
		logrus.WithError(err).Error("An error occurred while getting car offers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "An internal server error occurred",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    offers,
	})
}

func parseOfferFilter(c *fiber.Ctx) (services.OfferFilter, error) {
	var filter services.OfferFilter

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "min_price must be a number")
		}
		filter.MinPrice = &price
	}

	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "max_price must be a number")
		}
		filter.MaxPrice = &price
	}

	var err error
	if filter.CarCategory, err = queryChar(c, "category"); err != nil {
		return filter, err
	}
	if filter.CarBodyType, err = queryChar(c, "body_type"); err != nil {
		return filter, err
	}
	if filter.CarDriveType, err = queryChar(c, "drive_type"); err != nil {
		return filter, err
	}
	if filter.CarFuelAirConSystem, err = queryChar(c, "fuel_air_con"); err != nil {
		return filter, err
	}

	return filter, nil
}

// queryChar reads an optional single-character query parameter. Membership in the SIPP
// reference tables is not checked here; the retrieval service ignores characters
// outside the enumerated sets.
func queryChar(c *fiber.Ctx, name string) (*string, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if len(v) != 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a single character")
	}
	return &v, nil
}
