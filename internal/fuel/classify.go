package fuel

import "math"

// Quality flags whether a tract has enough data to classify.
type Quality string

const (
	QualityValid        Quality = "valid"
	QualityInsufficient Quality = "insufficient"
)

// Classification is the derived dominant-fuel record for one tract.
// Percent, DominantCount, and DominantShare are only meaningful when their
// accompanying conditions hold; see HasDominant.
type Classification struct {
	Quality Quality
	// Percent maps each fuel category to its share of total occupied
	// housing units, rounded to one decimal. Nil for insufficient tracts.
	Percent map[Category]float64
	// HasTie is true when more than one category holds the maximum count.
	// Always false for insufficient tracts.
	HasTie bool
	// Dominant is the winning category, or Tie / NoData.
	Dominant Category
	// DominantCount and DominantShare describe the winning category.
	// Zero when Dominant is Tie or NoData.
	DominantCount int64
	DominantShare float64
}

// HasDominant reports whether the tract resolved to a single fuel category.
func (c Classification) HasDominant() bool {
	return c.Dominant != Tie && c.Dominant != NoData
}

// Classify derives percentages and the dominant fuel for one tract.
//
// A tract with missing or zero total units is insufficient: no percentages
// are computed and the dominant category is NoData. When two or more
// categories share the maximum count the dominant category is Tie and the
// dominant statistics are left unset.
func Classify(total int64, totalMissing bool, counts Counts) Classification {
	if totalMissing || total <= 0 {
		return Classification{Quality: QualityInsufficient, Dominant: NoData}
	}

	cl := Classification{
		Quality: QualityValid,
		Percent: make(map[Category]float64, len(Categories)),
	}

	var maxCount int64
	ties := 0
	for _, cat := range Categories {
		n := counts[cat]
		cl.Percent[cat] = round1(float64(n) / float64(total) * 100)
		switch {
		case n > maxCount:
			maxCount = n
			ties = 1
		case n == maxCount:
			ties++
		}
	}

	if ties > 1 {
		cl.HasTie = true
		cl.Dominant = Tie
		return cl
	}

	for _, cat := range Categories {
		if counts[cat] == maxCount {
			cl.Dominant = cat
			break
		}
	}
	cl.DominantCount = maxCount
	cl.DominantShare = round1(float64(maxCount) / float64(total) * 100)

	return cl
}

// round1 rounds to one decimal with ties to even, matching how the upstream
// published percentages round exact .x5 shares (e.g. 1/16 is 6.2, not 6.3).
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
