package feed_test

import (
	"testing"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/feed"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

const testVIN = "1HGCV1F92NA123002"

// ── ForKind ────────────────────────────────────────────────────────────────

func TestForKind(t *testing.T) {
	for _, kind := range []string{"homenet", "vauto", "HomeNet", " vauto "} {
		a, err := feed.ForKind(kind)
		if err != nil {
			t.Errorf("ForKind(%q) returned unexpected error: %v", kind, err)
		}
		if a == nil {
			t.Errorf("ForKind(%q) returned nil adapter", kind)
		}
	}
}

func TestForKind_Unknown(t *testing.T) {
	if _, err := feed.ForKind("dealertrack"); err == nil {
		t.Error("ForKind(\"dealertrack\") expected error, got nil")
	}
	if _, err := feed.ForKind(""); err == nil {
		t.Error("ForKind(\"\") expected error, got nil")
	}
}

// ── homenet adapter ────────────────────────────────────────────────────────

func homenetRecord() feed.Record {
	return feed.Record{
		"VIN":               testVIN,
		"Make":              "Honda",
		"Model":             "Accord",
		"Year":              "2022",
		"Miles":             "12,345",
		"ListPrice":         "$24,995.00",
		"MSRP":              "27500",
		"Trim":              "Sport 2.0T",
		"Series":            "Sport",
		"Type":              "Used",
		"Certified":         "TRUE",
		"FuelType":          "",
		"EngineDescription": "1.5L Turbo",
		"ExteriorColor":     "Platinum White",
		"Transmission":      "CVT",
		"Drivetrain":        "FWD",
		"Body":              "Sedan",
		"Description":       "Clean one-owner Accord.",
		"PhotoURLList":      "http://img/1.jpg|http://img/2.jpg",
		"DealerCity":        "Atlanta",
		"DealerState":       "GA",
	}
}

func TestHomenetMap(t *testing.T) {
	a, _ := feed.ForKind("homenet")
	v, err := a.Map(homenetRecord())
	if err != nil {
		t.Fatalf("Map returned unexpected error: %v", err)
	}

	if v.VIN != testVIN {
		t.Errorf("VIN = %q", v.VIN)
	}
	if v.Year != 2022 {
		t.Errorf("Year = %d, want 2022", v.Year)
	}
	if v.Mileage != 12345 {
		t.Errorf("Mileage = %d, want 12345 (comma-grouped source)", v.Mileage)
	}
	if v.SalePrice != 24995.00 {
		t.Errorf("SalePrice = %v, want 24995 (dollar-sign source)", v.SalePrice)
	}
	if v.MSRP != 27500 {
		t.Errorf("MSRP = %v, want 27500", v.MSRP)
	}
	if len(v.PhotoURLs) != 2 || v.PhotoURLs[0] != "http://img/1.jpg" {
		t.Errorf("PhotoURLs = %v, want pipe-split in order", v.PhotoURLs)
	}
	if !v.RawCertified {
		t.Error("RawCertified should parse TRUE")
	}
	if v.RawTrim != "Sport 2.0T" || v.RawSeries != "Sport" {
		t.Errorf("trim columns = %q / %q", v.RawTrim, v.RawSeries)
	}
}

func TestHomenetMap_InvalidVIN(t *testing.T) {
	a, _ := feed.ForKind("homenet")
	for _, vin := range []string{"", "SHORT", "1HGCV1F92NA12300Q", "1HGCV1F92NA1230!2"} {
		rec := homenetRecord()
		rec["VIN"] = vin
		if _, err := a.Map(rec); err == nil {
			t.Errorf("Map with VIN %q expected error, got nil", vin)
		}
	}
}

func TestHomenetMap_MalformedNumeric(t *testing.T) {
	a, _ := feed.ForKind("homenet")
	rec := homenetRecord()
	rec["Miles"] = "twelve thousand"
	if _, err := a.Map(rec); err == nil {
		t.Error("Map with malformed Miles expected error, got nil")
	}
}

func TestHomenetMap_EmptyNumericsAreZero(t *testing.T) {
	a, _ := feed.ForKind("homenet")
	rec := homenetRecord()
	rec["Miles"] = ""
	rec["ListPrice"] = ""
	rec["MSRP"] = ""

	v, err := a.Map(rec)
	if err != nil {
		t.Fatalf("Map returned unexpected error: %v", err)
	}
	if v.Mileage != 0 || v.SalePrice != 0 || v.MSRP != 0 {
		t.Errorf("empty numerics should map to zero: %+v", v)
	}
}

// ── vauto adapter ──────────────────────────────────────────────────────────

func vautoRecord() feed.Record {
	return feed.Record{
		"vin":            testVIN,
		"make":           "Honda",
		"model":          "Accord",
		"year":           "2022",
		"odometer":       "31200",
		"price":          "21990",
		"msrp":           "",
		"trim_level":     "",
		"series":         "EX-L",
		"new_used":       "U",
		"cpo":            "no",
		"fuel":           "Gasoline",
		"engine":         "1.5L I4",
		"exterior_color": "Gray",
		"transmission":   "CVT",
		"drive_type":     "FWD",
		"body_style":     "Sedan",
		"description":    "Well maintained.",
		"photos":         "http://img/a.jpg, http://img/b.jpg, http://img/c.jpg",
		"dealer_city":    "Marietta",
		"dealer_state":   "GA",
	}
}

func TestVautoMap(t *testing.T) {
	a, _ := feed.ForKind("vauto")
	v, err := a.Map(vautoRecord())
	if err != nil {
		t.Fatalf("Map returned unexpected error: %v", err)
	}

	if v.Mileage != 31200 {
		t.Errorf("Mileage = %d, want 31200", v.Mileage)
	}
	if len(v.PhotoURLs) != 3 || v.PhotoURLs[2] != "http://img/c.jpg" {
		t.Errorf("PhotoURLs = %v, want comma-split in order", v.PhotoURLs)
	}
	if v.RawNewUsed != "U" {
		t.Errorf("RawNewUsed = %q", v.RawNewUsed)
	}
	if v.RawSeries != "EX-L" {
		t.Errorf("RawSeries = %q", v.RawSeries)
	}
	if v.RawCertified {
		t.Error("cpo=no should not set RawCertified")
	}
}

func TestVautoMap_LowercasesVIN(t *testing.T) {
	a, _ := feed.ForKind("vauto")
	rec := vautoRecord()
	rec["vin"] = "1hgcv1f92na123002"

	v, err := a.Map(rec)
	if err != nil {
		t.Fatalf("Map returned unexpected error: %v", err)
	}
	if v.VIN != testVIN {
		t.Errorf("VIN should be upper-cased, got %q", v.VIN)
	}
}

// ── FeedPath defaults ──────────────────────────────────────────────────────

func TestFeedPath(t *testing.T) {
	homenet, _ := feed.ForKind("homenet")
	vauto, _ := feed.ForKind("vauto")

	explicit := model.DealerFeedConfig{FeedPath: "/custom/export.csv"}
	if got := homenet.FeedPath(explicit); got != "/custom/export.csv" {
		t.Errorf("explicit FeedPath ignored: %q", got)
	}

	blank := model.DealerFeedConfig{}
	if homenet.FeedPath(blank) == "" || vauto.FeedPath(blank) == "" {
		t.Error("adapters must supply a default feed path")
	}
	if homenet.FeedPath(blank) == vauto.FeedPath(blank) {
		t.Error("adapter defaults should differ per provider convention")
	}
}
