package listing

import "motoauto-service/internal/domain/shared"

// Category groups listings by vehicle kind
type Category string

const (
	CategoryPassengerCars Category = "samochody-osobowe"
	CategoryMotorcycles   Category = "motocykle"
	CategoryVans          Category = "samochody-dostawcze"
	CategoryTrucks        Category = "ciężarówki"
	CategoryTrailers      Category = "przyczepy"
	CategoryAgricultural  Category = "maszyny-rolnicze"
	CategoryOther         Category = "pozostałe"
)

// FuelType of the vehicle engine
type FuelType string

const (
	FuelPetrol   FuelType = "benzyna"
	FuelDiesel   FuelType = "diesel"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "elektryczny"
	FuelLPG      FuelType = "lpg"
	FuelCNG      FuelType = "cng"
)

// Transmission type of the vehicle
type Transmission string

const (
	TransmissionManual        Transmission = "manualna"
	TransmissionAutomatic     Transmission = "automatyczna"
	TransmissionSemiAutomatic Transmission = "półautomatyczna"
)

// Condition of the vehicle
type Condition string

const (
	ConditionNew     Condition = "nowy"
	ConditionUsed    Condition = "używany"
	ConditionDamaged Condition = "uszkodzony"
	ConditionProject Condition = "do remontu"
)

var (
	categories = map[Category]bool{
		CategoryPassengerCars: true, CategoryMotorcycles: true, CategoryVans: true,
		CategoryTrucks: true, CategoryTrailers: true, CategoryAgricultural: true, CategoryOther: true,
	}
	fuelTypes = map[FuelType]bool{
		FuelPetrol: true, FuelDiesel: true, FuelHybrid: true, FuelElectric: true, FuelLPG: true, FuelCNG: true,
	}
	transmissions = map[Transmission]bool{
		TransmissionManual: true, TransmissionAutomatic: true, TransmissionSemiAutomatic: true,
	}
	conditions = map[Condition]bool{
		ConditionNew: true, ConditionUsed: true, ConditionDamaged: true, ConditionProject: true,
	}
)

// Valid reports whether c is a known category
func (c Category) Valid() bool { return categories[c] }

// Valid reports whether f is a known fuel type
func (f FuelType) Valid() bool { return fuelTypes[f] }

// Valid reports whether t is a known transmission
func (t Transmission) Valid() bool { return transmissions[t] }

// Valid reports whether c is a known condition
func (c Condition) Valid() bool { return conditions[c] }

// validateAttributes checks the optional enum attributes; empty values are allowed.
func validateAttributes(fuel FuelType, trans Transmission, cond Condition) error {
	if fuel != "" && !fuel.Valid() {
		return shared.ErrInvalidFuelType
	}
	if trans != "" && !trans.Valid() {
		return shared.ErrInvalidTransmission
	}
	if cond != "" && !cond.Valid() {
		return shared.ErrInvalidCondition
	}
	return nil
}
