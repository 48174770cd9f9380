package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/carrentals/offer-backend/models"
	"github.com/sirupsen/logrus"
)

// CarOfferRepository persists the aggregated offer set in the car_offers table.
// Offers are keyed by (supplier_offer_id, supplier_name); last_modified is owned by
// this layer and refreshed on every insert or update.
type CarOfferRepository struct {
	DB *sql.DB
}

// NewCarOfferRepository creates a repository over the given database handle.
func NewCarOfferRepository(db *sql.DB) *CarOfferRepository {
	return &CarOfferRepository{DB: db}
}

const carOfferColumns = `id, supplier_offer_id, supplier_name, price, currency, vehicle_name,
	          sipp_code, car_category, car_body_type, car_drive_type, car_fuel_air_con_system,
	          image_link, supplier_logo, last_modified`

// GetCarOffers returns every persisted car offer.
func (r *CarOfferRepository) GetCarOffers(ctx context.Context) ([]models.CarOffer, error) {
	query := `SELECT ` + carOfferColumns + ` FROM car_offers`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query car offers: %w", err)
	}
	defer rows.Close()

	var offers []models.CarOffer
	for rows.Next() {
		var offer models.CarOffer
		err := rows.Scan(
			&offer.ID, &offer.SupplierOfferID, &offer.SupplierName, &offer.Price,
			&offer.Currency, &offer.VehicleName, &offer.SippCode,
			&offer.CarCategory, &offer.CarBodyType, &offer.CarDriveType, &offer.CarFuelAirConSystem,
			&offer.ImageLink, &offer.SupplierLogo, &offer.LastModified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car offer row: %w", err)
		}
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car offer rows: %w", err)
	}

	return offers, nil
}

// GetLastUpdateTime returns the most recent last_modified timestamp across all offers,
// or nil when the table is empty.
func (r *CarOfferRepository) GetLastUpdateTime(ctx context.Context) (*time.Time, error) {
	var lastModified sql.NullTime
	err := r.DB.QueryRowContext(ctx, `SELECT MAX(last_modified) FROM car_offers`).Scan(&lastModified)
	if err != nil {
		return nil, fmt.Errorf("failed to query last update time: %w", err)
	}

	if !lastModified.Valid {
		return nil, nil
	}
	return &lastModified.Time, nil
}

// UpdateCarOffers reconciles the table with the latest supplier-reported set in one
// transaction: offers no longer reported by any supplier are deleted, the rest are
// inserted or updated in place with a fresh last_modified.
func (r *CarOfferRepository) UpdateCarOffers(ctx context.Context, offers []models.CarOffer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin car offer update transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.deleteMissingOffers(ctx, tx, offers); err != nil {
		return err
	}

	upsert := `INSERT INTO car_offers (
			supplier_offer_id, supplier_name, price, currency, vehicle_name,
			sipp_code, car_category, car_body_type, car_drive_type, car_fuel_air_con_system,
			image_link, supplier_logo, last_modified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, CURRENT_TIMESTAMP)
		ON CONFLICT (supplier_offer_id, supplier_name) DO UPDATE SET
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			vehicle_name = EXCLUDED.vehicle_name,
			sipp_code = EXCLUDED.sipp_code,
			car_category = EXCLUDED.car_category,
			car_body_type = EXCLUDED.car_body_type,
			car_drive_type = EXCLUDED.car_drive_type,
			car_fuel_air_con_system = EXCLUDED.car_fuel_air_con_system,
			image_link = EXCLUDED.image_link,
			supplier_logo = EXCLUDED.supplier_logo,
			last_modified = CURRENT_TIMESTAMP`

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("failed to prepare car offer upsert: %w", err)
	}
	defer stmt.Close()

	for _, offer := range offers {
		_, err := stmt.ExecContext(ctx,
			offer.SupplierOfferID, offer.SupplierName, offer.Price, offer.Currency, offer.VehicleName,
			offer.SippCode, offer.CarCategory, offer.CarBodyType, offer.CarDriveType, offer.CarFuelAirConSystem,
			offer.ImageLink, offer.SupplierLogo,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert car offer %s/%s: %w", offer.SupplierOfferID, offer.SupplierName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit car offer update: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"component":   "CarOfferRepository",
		"offer_count": len(offers),
	}).Info("Car offers updated successfully")

	return nil
}

// deleteMissingOffers removes rows whose natural key is absent from the incoming set.
func (r *CarOfferRepository) deleteMissingOffers(ctx context.Context, tx *sql.Tx, offers []models.CarOffer) error {
	if len(offers) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM car_offers`); err != nil {
			return fmt.Errorf("failed to clear car offers: %w", err)
		}
		return nil
	}

	placeholders := make([]string, 0, len(offers))
	args := make([]interface{}, 0, 2*len(offers))
	for i, offer := range offers {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", 2*i+1, 2*i+2))
		args = append(args, offer.SupplierOfferID, offer.SupplierName)
	}

	query := `DELETE FROM car_offers WHERE (supplier_offer_id, supplier_name) NOT IN (` +
		strings.Join(placeholders, ", ") + `)`

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete stale car offers: %w", err)
	}
	return nil
}
