package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier names as they appear on normalized offers and in the store's natural key.
const (
	SupplierBestRentals     = "Best Rentals"
	SupplierSouthRentals    = "South Rentals"
	SupplierNorthernRentals = "Northern Rentals"
)

// CarOffer is the canonical offer entity produced by normalization and stored in the
// car_offers table. An offer is identified by the (SupplierOfferID, SupplierName) pair;
// ID is assigned by the store and is zero until the offer has been persisted.
type CarOffer struct {
	ID uuid.UUID `json:"id"`

	// SupplierOfferID is the identity string the supplier reported for this offer.
	SupplierOfferID string `json:"supplier_offer_id"`

	Price       float64 `json:"price"`
	Currency    *string `json:"currency"`
	VehicleName *string `json:"vehicle_name"`

	// SippCode is the raw 4-character SIPP/ACRISS classification code, or nil when
	// the supplier did not report one.
	SippCode *string `json:"sipp_code"`

	// Decoded SIPP positions 0-3. All four are nil together when SippCode is absent
	// or not exactly 4 characters long.
	CarCategory         *string `json:"car_category"`
	CarBodyType         *string `json:"car_body_type"`
	CarDriveType        *string `json:"car_drive_type"`
	CarFuelAirConSystem *string `json:"car_fuel_air_con_system"`

	ImageLink    *string `json:"image_link"`
	SupplierLogo *string `json:"supplier_logo"`
	SupplierName string  `json:"supplier_name"`

	// LastModified is set by the persistence layer on insert and update.
	LastModified time.Time `json:"last_modified"`
}
