// Package fuel classifies census tracts by their dominant residential
// heating fuel from ACS housing-unit counts.
package fuel

// Category is a heating-fuel category from the ACS "house heating fuel"
// table, plus the two sentinel outcomes of dominant-fuel classification.
type Category string

const (
	NaturalGas  Category = "Natural_Gas"
	Propane     Category = "Propane"
	Electricity Category = "Electricity"
	FuelOil     Category = "Fuel_Oil"
	Coal        Category = "Coal"
	Wood        Category = "Wood"
	Solar       Category = "Solar"
	Other       Category = "Other"
	NoFuel      Category = "No_Fuel"

	// Tie marks tracts where more than one category holds the maximum count.
	Tie Category = "Tie"
	// NoData marks tracts with zero or missing occupied housing units.
	NoData Category = "No_Data"
)

// Categories lists the nine countable fuel categories in table order. The
// order doubles as the lookup order when resolving a unique maximum.
var Categories = []Category{
	NaturalGas, Propane, Electricity, FuelOil, Coal, Wood, Solar, Other, NoFuel,
}

// Label returns a human-readable name for the category.
func (c Category) Label() string {
	switch c {
	case NaturalGas:
		return "Natural Gas"
	case FuelOil:
		return "Fuel Oil"
	case NoFuel:
		return "No Fuel"
	case NoData:
		return "No Data"
	default:
		return string(c)
	}
}

// Counts holds housing-unit counts per fuel category for one tract.
type Counts map[Category]int64
