// Package summary computes national and per-state statistics over processed
// tracts.
package summary

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fuelatlas/fuelatlas/internal/fuel"
	"github.com/fuelatlas/fuelatlas/internal/model"
)

// FuelStat describes one category across all valid tracts of a vintage.
type FuelStat struct {
	Category    fuel.Category
	Dominant    int     // tracts where this category is the dominant fuel
	Units       int64   // housing units using this fuel
	MeanShare   float64 // mean of the category's percentage over valid tracts
	MedianShare float64
	StdDevShare float64
}

// YearSummary aggregates one vintage.
type YearSummary struct {
	Year       int
	Tracts     int
	Valid      int
	Ties       int
	NoData     int
	TotalUnits int64
	Fuels      []FuelStat
}

// Summarize computes the national summary for one vintage.
func Summarize(year int, tracts []model.Tract) YearSummary {
	s := YearSummary{Year: year, Tracts: len(tracts)}

	shares := make(map[fuel.Category][]float64, len(fuel.Categories))
	dominant := make(map[fuel.Category]int, len(fuel.Categories))
	units := make(map[fuel.Category]int64, len(fuel.Categories))

	for _, t := range tracts {
		if t.Class.Quality != fuel.QualityValid {
			s.NoData++
			continue
		}
		s.Valid++
		s.TotalUnits += t.TotalUnits
		if t.Class.HasTie {
			s.Ties++
		} else {
			dominant[t.Class.Dominant]++
		}
		for _, cat := range fuel.Categories {
			units[cat] += t.Counts[cat]
			shares[cat] = append(shares[cat], t.Class.Percent[cat])
		}
	}

	s.Fuels = make([]FuelStat, 0, len(fuel.Categories))
	for _, cat := range fuel.Categories {
		fs := FuelStat{
			Category: cat,
			Dominant: dominant[cat],
			Units:    units[cat],
		}
		if xs := shares[cat]; len(xs) > 0 {
			sort.Float64s(xs)
			fs.MeanShare = stat.Mean(xs, nil)
			fs.MedianShare = stat.Quantile(0.5, stat.Empirical, xs, nil)
			fs.StdDevShare = stat.StdDev(xs, nil)
		}
		s.Fuels = append(s.Fuels, fs)
	}
	return s
}

// StateSummary aggregates one state within a vintage. DominantTracts counts
// valid non-tie tracts per simplified display category.
type StateSummary struct {
	StateAbbr      string
	StateName      string
	Tracts         int
	Valid          int
	TotalUnits     int64
	DominantTracts map[fuel.Simplified]int
	LeadingFuel    fuel.Simplified
}

// ByState groups tracts by state postal abbreviation, sorted by abbreviation.
func ByState(tracts []model.Tract) []StateSummary {
	byAbbr := make(map[string]*StateSummary)
	for _, t := range tracts {
		st, ok := byAbbr[t.StateAbbr]
		if !ok {
			st = &StateSummary{
				StateAbbr:      t.StateAbbr,
				StateName:      t.StateName,
				DominantTracts: make(map[fuel.Simplified]int),
			}
			byAbbr[t.StateAbbr] = st
		}
		st.Tracts++
		if t.Class.Quality != fuel.QualityValid {
			continue
		}
		st.Valid++
		st.TotalUnits += t.TotalUnits
		st.DominantTracts[fuel.Simplify(t.Class.Dominant)]++
	}

	out := make([]StateSummary, 0, len(byAbbr))
	for _, st := range byAbbr {
		st.LeadingFuel = leadingFuel(st.DominantTracts)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateAbbr < out[j].StateAbbr })
	return out
}

// leadingFuel picks the simplified category dominating the most tracts,
// breaking count ties by display order.
func leadingFuel(counts map[fuel.Simplified]int) fuel.Simplified {
	best := fuel.SimpleNoFuelMissing
	bestN := -1
	for _, cat := range fuel.SimplifiedOrder {
		if counts[cat] > bestN {
			best = cat
			bestN = counts[cat]
		}
	}
	return best
}
