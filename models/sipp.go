package models

import "strings"

// SIPP/ACRISS reference tables. Each table maps a valid single-character value of one
// code position to its industry meaning. Filtering consults these tables for membership;
// decoding does not (an invalid-but-4-character code still decodes).

// CarCategories holds valid SIPP position 1 characters (vehicle category).
var CarCategories = map[string]string{
	"M": "Mini",
	"N": "Mini Elite",
	"E": "Economy",
	"H": "Economy Elite",
	"C": "Compact",
	"D": "Compact Elite",
	"I": "Intermediate",
	"J": "Intermediate Elite",
	"S": "Standard",
	"R": "Standard Elite",
	"F": "Fullsize",
	"G": "Fullsize Elite",
	"P": "Premium",
	"U": "Premium Elite",
	"L": "Luxury",
	"W": "Luxury Elite",
	"O": "Oversize",
	"X": "Special",
}

// CarBodyTypes holds valid SIPP position 2 characters (body type).
var CarBodyTypes = map[string]string{
	"B": "2/3 Door",
	"C": "2/4 Door",
	"D": "4/5 Door",
	"W": "Wagon/Estate",
	"V": "Passenger Van",
	"L": "Limousine/Sedan",
	"S": "Sport",
	"T": "Convertible",
	"F": "SUV",
	"J": "Open Air All Terrain",
	"X": "Special",
	"P": "Pickup 2 Door",
	"Q": "Pickup 4 Door",
	"Z": "Special Offer Car",
	"E": "Coupe",
	"M": "Monospace",
	"R": "Recreational Vehicle",
	"H": "Motor Home",
	"Y": "2 Wheel Vehicle",
	"N": "Roadster",
	"G": "Crossover",
	"K": "Commercial Van/Truck",
}

// CarDriveTypes holds valid SIPP position 3 characters (drive/transmission).
var CarDriveTypes = map[string]string{
	"M": "Manual, Unspecified Drive",
	"N": "Manual, 4WD",
	"C": "Manual, AWD",
	"A": "Auto, Unspecified Drive",
	"B": "Auto, 4WD",
	"D": "Auto, AWD",
}

// CarFuelAirConSystems holds valid SIPP position 4 characters (fuel/air conditioning).
var CarFuelAirConSystems = map[string]string{
	"R": "Unspecified Fuel, Air",
	"N": "Unspecified Fuel, No Air",
	"D": "Diesel, Air",
	"Q": "Diesel, No Air",
	"H": "Hybrid",
	"I": "Hybrid Plug-In",
	"E": "Electric",
	"C": "Electric Special",
	"L": "LPG, Air",
	"S": "LPG, No Air",
	"A": "Hydrogen, Air",
	"B": "Hydrogen, No Air",
	"M": "Multi Fuel, Air",
	"F": "Multi Fuel, No Air",
	"V": "Petrol, Air",
	"Z": "Petrol, No Air",
	"U": "Ethanol, Air",
	"X": "Ethanol, No Air",
}

// IsValidCarCategory reports whether c is an enumerated SIPP category character.
func IsValidCarCategory(c string) bool {
	_, ok := CarCategories[c]
	return ok
}

// IsValidCarBodyType reports whether c is an enumerated SIPP body type character.
func IsValidCarBodyType(c string) bool {
	_, ok := CarBodyTypes[c]
	return ok
}

// IsValidCarDriveType reports whether c is an enumerated SIPP drive type character.
func IsValidCarDriveType(c string) bool {
	_, ok := CarDriveTypes[c]
	return ok
}

// IsValidCarFuelAirConSystem reports whether c is an enumerated SIPP fuel/air-con character.
func IsValidCarFuelAirConSystem(c string) bool {
	_, ok := CarFuelAirConSystems[c]
	return ok
}

// SplitSippCode decodes a SIPP code into its four positional characters. Supplier data
// is untrusted: a nil, blank, or wrong-length code degrades to four nils rather than an
// error. Characters are not checked against the reference tables here.
func SplitSippCode(sipp *string) (category, bodyType, driveType, fuelAirCon *string) {
	if sipp == nil || strings.TrimSpace(*sipp) == "" || len(*sipp) != 4 {
		return nil, nil, nil, nil
	}

	code := *sipp
	c1 := code[0:1]
	c2 := code[1:2]
	c3 := code[2:3]
	c4 := code[3:4]
	return &c1, &c2, &c3, &c4
}
