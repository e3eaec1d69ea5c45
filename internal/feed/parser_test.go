package feed_test

import (
	"strings"
	"testing"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/feed"
)

// ── ParseCSV ───────────────────────────────────────────────────────────────

func TestParseCSV_PreservesEveryColumn(t *testing.T) {
	data := []byte("VIN,Make,SomeVendorColumn\n1HGCV1F92NA123002,Honda,whatever\n")

	recs, err := feed.ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0]["SomeVendorColumn"] != "whatever" {
		t.Errorf("unmapped column not preserved: %v", recs[0])
	}
}

func TestParseCSV_EmptyCellsAreValid(t *testing.T) {
	data := []byte("VIN,Make,Model\n1HGCV1F92NA123002,,\n")

	recs, err := feed.ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned unexpected error: %v", err)
	}
	if recs[0]["Make"] != "" || recs[0]["Model"] != "" {
		t.Errorf("empty cells should parse as empty strings: %v", recs[0])
	}
}

func TestParseCSV_InconsistentColumnCountFails(t *testing.T) {
	data := []byte("VIN,Make,Model\nonly,two\n")

	if _, err := feed.ParseCSV(data); err == nil {
		t.Error("ParseCSV should reject rows with inconsistent column counts")
	}
}

func TestParseCSV_EmptyFileFails(t *testing.T) {
	if _, err := feed.ParseCSV(nil); err == nil {
		t.Error("ParseCSV should reject an empty file")
	}
}

func TestParseCSV_StripsBOM(t *testing.T) {
	data := []byte("\xEF\xBB\xBFVIN,Make\nABC,Honda\n")

	recs, err := feed.ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned unexpected error: %v", err)
	}
	if recs[0]["VIN"] != "ABC" {
		t.Errorf("BOM not stripped from first header: %v", recs[0])
	}
}

func TestParseCSV_QuotedCellWithCommas(t *testing.T) {
	data := []byte("vin,photos\nABC,\"a.jpg, b.jpg, c.jpg\"\n")

	recs, err := feed.ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned unexpected error: %v", err)
	}
	if !strings.Contains(recs[0]["photos"], "b.jpg") {
		t.Errorf("quoted multi-value cell mangled: %q", recs[0]["photos"])
	}
}

// ── SplitList ──────────────────────────────────────────────────────────────

func TestSplitList(t *testing.T) {
	cases := []struct {
		cell  string
		delim string
		want  int
	}{
		{"a.jpg|b.jpg|c.jpg", "|", 3},
		{"a.jpg, b.jpg", ",", 2},
		{"", "|", 0},
		{"   ", "|", 0},
		{"a.jpg||b.jpg", "|", 2}, // empty entries dropped
	}
	for _, c := range cases {
		got := feed.SplitList(c.cell, c.delim)
		if len(got) != c.want {
			t.Errorf("SplitList(%q, %q) = %v, want %d entries", c.cell, c.delim, got, c.want)
		}
	}
}

func TestSplitList_TrimsEntries(t *testing.T) {
	got := feed.SplitList(" a.jpg , b.jpg ", ",")
	if got[0] != "a.jpg" || got[1] != "b.jpg" {
		t.Errorf("SplitList should trim entries, got %v", got)
	}
}
