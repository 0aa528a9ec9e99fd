// Package census provides FIPS, GEOID, and GISJOIN identifier helpers for
// census-tract geography.
package census

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// NormalizeFIPSState normalizes a state FIPS code to 2 digits with zero-padding.
func NormalizeFIPSState(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// NormalizeFIPSCounty normalizes a county FIPS code to 3 digits with zero-padding.
func NormalizeFIPSCounty(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 3 {
		code = "0" + code
	}
	return code
}

// NormalizeTractCode normalizes a tract code to 6 digits with zero-padding.
func NormalizeTractCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 6 {
		code = "0" + code
	}
	return code
}

// TractFIPSFromGEOID extracts the 11-digit tract FIPS code from an ACS
// GEOID such as "14000US06037207400". The tract FIPS is always the last 11
// characters (2 state + 3 county + 6 tract).
func TractFIPSFromGEOID(geoid string) (string, error) {
	geoid = strings.TrimSpace(geoid)
	if len(geoid) < 11 {
		return "", eris.Errorf("census: GEOID %q shorter than 11 characters", geoid)
	}
	return geoid[len(geoid)-11:], nil
}

// CombineTractFIPS combines state, county, and tract codes into an
// 11-digit tract FIPS code.
func CombineTractFIPS(state, county, tract string) string {
	s := NormalizeFIPSState(state)
	c := NormalizeFIPSCounty(county)
	t := NormalizeTractCode(tract)
	if s == "" || c == "" || t == "" {
		return ""
	}
	return s + c + t
}

// GISJOINFromFIPS builds the NHGIS GISJOIN key for an 11-digit tract FIPS
// code. NHGIS pads the state and county segments with a trailing zero:
// "G" + SS + "0" + CCC + "0" + TTTTTT.
func GISJOINFromFIPS(fips string) (string, error) {
	if len(fips) != 11 {
		return "", eris.Errorf("census: tract FIPS %q must be 11 digits", fips)
	}
	return fmt.Sprintf("G%s0%s0%s", fips[:2], fips[2:5], fips[5:]), nil
}

// ParseGISJOIN splits an NHGIS tract GISJOIN into state, county, and tract
// FIPS segments.
func ParseGISJOIN(gisjoin string) (state, county, tract string, err error) {
	if len(gisjoin) != 14 || gisjoin[0] != 'G' {
		return "", "", "", eris.Errorf("census: malformed GISJOIN %q", gisjoin)
	}
	return gisjoin[1:3], gisjoin[4:7], gisjoin[8:14], nil
}
