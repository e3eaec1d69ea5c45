// Package normalize derives canonical vehicle fields from noisy feed columns.
// Every function is pure: same inputs, same outputs, no I/O.
package normalize

import (
	"strconv"
	"strings"
)

// FuelType infers a canonical fuel type. Precedence is fixed and load-bearing:
// explicit fuel column → engine description → model name → "Gasoline".
// Feeds routinely leave the fuel column blank or misfiled for hybrids whose
// engine string is the only reliable signal.
func FuelType(fuelCol, engine, modelName string) string {
	if ft, ok := matchFuel(fuelCol); ok {
		return ft
	}
	if ft, ok := matchFuel(engine); ok {
		return ft
	}
	if ft, ok := matchFuel(modelName); ok {
		return ft
	}
	return "Gasoline"
}

// matchFuel checks s against the known fuel vocabulary. The hybrid check runs
// before the electric one: "plug-in hybrid electric" must resolve to Hybrid.
func matchFuel(s string) (string, bool) {
	s = strings.ToLower(s)
	switch {
	case s == "":
		return "", false
	case strings.Contains(s, "plug-in") || strings.Contains(s, "plugin") || strings.Contains(s, "hybrid") || strings.Contains(s, "phev"):
		return "Hybrid", true
	case strings.Contains(s, "electric") || strings.Contains(s, "ev") && len(s) <= 4 || strings.Contains(s, "battery"):
		return "Electric", true
	case strings.Contains(s, "diesel") || strings.Contains(s, "tdi") || strings.Contains(s, "duramax") || strings.Contains(s, "cummins") || strings.Contains(s, "powerstroke"):
		return "Diesel", true
	case strings.Contains(s, "flex"):
		return "Flex Fuel", true
	case strings.Contains(s, "gasoline") || strings.Contains(s, "petrol") || strings.Contains(s, "gas"):
		return "Gasoline", true
	}
	return "", false
}

// Condition determines New / Used / Certified Pre-Owned.
//
// The certified flag wins outright. Otherwise mileage above the threshold
// forces Used no matter what the feed claims — feeds mis-tag demo and loaner
// vehicles as new. Only then is the feed's own column trusted.
func Condition(certified bool, mileage int, newUsed string) string {
	if certified {
		return "Certified Pre-Owned"
	}
	if mileage > usedMileageThreshold {
		return "Used"
	}
	switch strings.ToLower(strings.TrimSpace(newUsed)) {
	case "new", "n":
		return "New"
	case "used", "u", "pre-owned", "preowned":
		return "Used"
	}
	return "Used"
}

const usedMileageThreshold = 1000

// Trim prefers the detailed sub-trim column over the coarser series column.
// Returns "" when neither is present.
func Trim(subTrim, series string) string {
	if t := strings.TrimSpace(subTrim); t != "" {
		return t
	}
	return strings.TrimSpace(series)
}

// Slug builds the deterministic URL-safe slug for a vehicle. Re-syncing the
// same vehicle must yield the same slug so permalinks never churn.
func Slug(vin string, year int, makeName, model, city, state string) string {
	yearSeg := ""
	if year > 0 {
		yearSeg = strconv.Itoa(year)
	}
	segments := []string{vin, yearSeg, makeName, model, city, state}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, alnumRuns(seg)...)
	}
	return strings.Join(parts, "-")
}

// alnumRuns lowercases s and splits it into maximal [a-z0-9] runs,
// dropping everything else.
func alnumRuns(s string) []string {
	s = strings.ToLower(s)
	var runs []string
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			runs = append(runs, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		runs = append(runs, b.String())
	}
	return runs
}
