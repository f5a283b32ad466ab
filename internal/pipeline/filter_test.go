package pipeline

import (
	"testing"
	"time"

	"dictamen/internal"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFilterInclusiveBounds(t *testing.T) {
	docs := []*internal.Document{
		{Folio: "1", Raws: []internal.RawRecord{{FechaVisita: "2025-03-01"}}},
		{Folio: "2", Raws: []internal.RawRecord{{FechaVisita: "2025-02-28"}}},
		{Folio: "3", Raws: []internal.RawRecord{{FechaVisita: "2025-03-31"}}},
		{Folio: "4", Raws: []internal.RawRecord{{FechaVisita: "2025-04-01"}}},
	}
	out := FilterByDateRange(docs, day(2025, 3, 1), day(2025, 3, 31))

	if len(out) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(out))
	}
	if out[0].Folio != "1" || out[1].Folio != "3" {
		t.Fatalf("rows on the bounds must be included: %q %q", out[0].Folio, out[1].Folio)
	}
}

func TestFilterKeepsDatelessRows(t *testing.T) {
	docs := []*internal.Document{
		{Folio: "1", Raws: []internal.RawRecord{{FechaVisita: "ilegible"}}},
		{Folio: "2", Raws: []internal.RawRecord{{}}},
	}
	out := FilterByDateRange(docs, day(2025, 3, 1), day(2025, 3, 31))
	if len(out) != 2 {
		t.Fatalf("dateless rows must not disappear, got %d", len(out))
	}
}

func TestEffectiveDateFallbackOrder(t *testing.T) {
	doc := &internal.Document{Raws: []internal.RawRecord{{
		FechaEmision:         "2025-02-01",
		FechaDesaduanamiento: "2025-01-01",
	}}}
	got := EffectiveDate(doc)
	if got == nil || got.Month() != time.February {
		t.Fatalf("emission must come before desaduanamiento: %v", got)
	}

	doc.Raws[0].FechaVisita = "2025-03-05"
	got = EffectiveDate(doc)
	if got == nil || got.Month() != time.March {
		t.Fatalf("visit date must win: %v", got)
	}
}

func TestFilterNoBounds(t *testing.T) {
	docs := []*internal.Document{{Folio: "1"}}
	if out := FilterByDateRange(docs, nil, nil); len(out) != 1 {
		t.Fatal("no bounds must pass everything through")
	}
}
