package census

// Region groups states for map layout: the contiguous US is the main panel,
// Alaska gets an inset, and excluded states are dropped entirely.
type Region int

const (
	RegionConus Region = iota
	RegionAlaska
	RegionExcluded
)

// DefaultExcludedStates lists postal abbreviations left off national maps.
var DefaultExcludedStates = []string{"HI", "PR"}

// RegionFor classifies a state postal abbreviation for map layout.
// An empty abbreviation (tract geometry with no matching survey record)
// falls into the CONUS panel so unmatched shapes still render.
func RegionFor(stateAbbr string, exclude []string) Region {
	for _, ex := range exclude {
		if stateAbbr == ex {
			return RegionExcluded
		}
	}
	if stateAbbr == "AK" {
		return RegionAlaska
	}
	return RegionConus
}
