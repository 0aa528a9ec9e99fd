package fuel

import "image/color"

// Simplified is the consolidated display category used on maps. Rare fuels
// and tie/no-data outcomes collapse into two buckets so the legend stays
// readable.
type Simplified string

const (
	SimpleElectricity   Simplified = "Electricity"
	SimpleNaturalGas    Simplified = "Natural_Gas"
	SimplePropane       Simplified = "Propane"
	SimpleFuelOil       Simplified = "Fuel_Oil"
	SimpleWood          Simplified = "Wood"
	SimpleOther         Simplified = "Other"
	SimpleNoFuelMissing Simplified = "No_Fuel_Missing"
)

// SimplifiedOrder lists display categories in legend order.
var SimplifiedOrder = []Simplified{
	SimpleElectricity, SimpleNaturalGas, SimplePropane,
	SimpleFuelOil, SimpleWood, SimpleOther, SimpleNoFuelMissing,
}

// Simplify maps a dominant-fuel category to its display bucket.
// Electricity, Natural_Gas, Propane, Fuel_Oil, and Wood pass through;
// Tie, Coal, Solar, and Other become Other; No_Fuel and No_Data become
// No_Fuel_Missing.
func Simplify(c Category) Simplified {
	switch c {
	case Electricity:
		return SimpleElectricity
	case NaturalGas:
		return SimpleNaturalGas
	case Propane:
		return SimplePropane
	case FuelOil:
		return SimpleFuelOil
	case Wood:
		return SimpleWood
	case Tie, Coal, Solar, Other:
		return SimpleOther
	default:
		return SimpleNoFuelMissing
	}
}

// Label returns a human-readable name for the display category.
func (s Simplified) Label() string {
	switch s {
	case SimpleNaturalGas:
		return "Natural Gas"
	case SimpleFuelOil:
		return "Fuel Oil"
	case SimpleNoFuelMissing:
		return "No Fuel/Missing"
	default:
		return string(s)
	}
}

// Palette holds the print-safe fill color for each display category.
var Palette = map[Simplified]color.NRGBA{
	SimpleNaturalGas:    {R: 0x31, G: 0x82, B: 0xbd, A: 0xff},
	SimpleElectricity:   {R: 0x31, G: 0xa3, B: 0x54, A: 0xff},
	SimpleFuelOil:       {R: 0xde, G: 0x2d, B: 0x26, A: 0xff},
	SimplePropane:       {R: 0xfd, G: 0x8d, B: 0x3c, A: 0xff},
	SimpleWood:          {R: 0x8c, G: 0x6d, B: 0x31, A: 0xff},
	SimpleOther:         {R: 0x96, G: 0x96, B: 0x96, A: 0xff},
	SimpleNoFuelMissing: {R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
}

// Color returns the fill color for a dominant-fuel category.
func Color(c Category) color.NRGBA {
	return Palette[Simplify(c)]
}
