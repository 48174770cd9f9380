package services

import (
	"github.com/carrentals/offer-backend/models"
)

// Offer mapping is a static per-supplier field translation into the canonical
// models.CarOffer. Mappers are pure and total: malformed SIPP codes degrade to nil
// classification fields instead of failing, because supplier data is best-effort.

// MapBestRentalsOffer maps a Best Rentals record to the canonical offer.
func MapBestRentalsOffer(dto BestRentalsOffer) models.CarOffer {
	category, bodyType, driveType, fuelAirCon := models.SplitSippCode(dto.Sipp)

	return models.CarOffer{
		SupplierOfferID:     stringValue(dto.UniqueID),
		Price:               dto.RentalCost,
		Currency:            dto.RentalCostCurrency,
		VehicleName:         dto.Vehicle,
		SippCode:            dto.Sipp,
		CarCategory:         category,
		CarBodyType:         bodyType,
		CarDriveType:        driveType,
		CarFuelAirConSystem: fuelAirCon,
		ImageLink:           dto.ImageLink,
		SupplierLogo:        dto.Logo,
		SupplierName:        models.SupplierBestRentals,
	}
}

// MapSouthRentalsOffer maps a South Rentals record to the canonical offer.
func MapSouthRentalsOffer(dto SouthRentalsOffer) models.CarOffer {
	category, bodyType, driveType, fuelAirCon := models.SplitSippCode(dto.AcrissCode)

	return models.CarOffer{
		SupplierOfferID:     stringValue(dto.QuoteNumber),
		Price:               dto.Price,
		Currency:            dto.Currency,
		VehicleName:         dto.VehicleName,
		SippCode:            dto.AcrissCode,
		CarCategory:         category,
		CarBodyType:         bodyType,
		CarDriveType:        driveType,
		CarFuelAirConSystem: fuelAirCon,
		ImageLink:           dto.ImageLink,
		SupplierLogo:        dto.LogoLink,
		SupplierName:        models.SupplierSouthRentals,
	}
}

// MapNorthernRentalsOffer maps a Northern Rentals record to the canonical offer.
func MapNorthernRentalsOffer(dto NorthernRentalsOffer) models.CarOffer {
	category, bodyType, driveType, fuelAirCon := models.SplitSippCode(dto.SippCode)

	return models.CarOffer{
		SupplierOfferID:     stringValue(dto.ID),
		Price:               dto.Price,
		Currency:            dto.Currency,
		VehicleName:         dto.VehicleName,
		SippCode:            dto.SippCode,
		CarCategory:         category,
		CarBodyType:         bodyType,
		CarDriveType:        driveType,
		CarFuelAirConSystem: fuelAirCon,
		ImageLink:           dto.Image,
		SupplierLogo:        dto.SupplierLogo,
		SupplierName:        models.SupplierNorthernRentals,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
