package xref

import (
	"testing"

	"dictamen/internal"
)

func TestFinderExactPair(t *testing.T) {
	details := []internal.DetailRecord{
		{Solicitud: "006916/25", Folio: "075339", Norma: "004"},
		{Solicitud: "006917/25", Folio: "075340", Norma: "020"},
	}
	f := NewDetailFinder(details)

	rec, rule := f.Find("006916/25", "075339")
	if rec == nil || rec.Norma != "004" {
		t.Fatalf("expected exact match, got %+v", rec)
	}
	if rule != "exact_pair" {
		t.Fatalf("rule: %q", rule)
	}
}

func TestFinderFolioOnlyWhenSolicitudUnavailable(t *testing.T) {
	details := []internal.DetailRecord{
		{Solicitud: "006916/25", Folio: "075339", Norma: "004"},
	}
	f := NewDetailFinder(details)

	rec, rule := f.Find("", "075339")
	if rec == nil || rule != "folio_only" {
		t.Fatalf("rec=%v rule=%q", rec, rule)
	}

	// A populated but mismatched solicitud does not unlock the weaker rule.
	rec, _ = f.Find("999999/25", "075339")
	if rec != nil {
		t.Fatalf("mismatched pair must not fall back to folio-only: %+v", rec)
	}
}

func TestFinderSolicitudOnlyWhenFolioUnavailable(t *testing.T) {
	details := []internal.DetailRecord{
		{Solicitud: "006916/25", Folio: "075339", Norma: "004"},
	}
	f := NewDetailFinder(details)

	rec, rule := f.Find("006916/25", "")
	if rec == nil || rule != "solicitud_only" {
		t.Fatalf("rec=%v rule=%q", rec, rule)
	}
}

func TestFinderContainment(t *testing.T) {
	details := []internal.DetailRecord{
		{Identificacion: "25049UDC004075339 Solicitud de Servicio: 25049USD004006916-1", Folio: "075339", Solicitud: "otra"},
	}
	f := NewDetailFinder(details)

	rec, rule := f.Find("006916/25", "000001")
	if rec == nil || rule != "containment" {
		t.Fatalf("rec=%v rule=%q", rec, rule)
	}
}

func TestFinderFilenameDerivedRecord(t *testing.T) {
	details := []internal.DetailRecord{
		{Solicitud: "sol006916", Folio: "075339", Identificacion: "sol006916_f075339", FromFilename: true},
	}
	f := NewDetailFinder(details)

	// The filename-derived solicitud token still matches by containment.
	rec, rule := f.Find("006916/25", "075339")
	if rec == nil {
		t.Fatal("expected a match against the filename-derived record")
	}
	if rule != "containment" {
		t.Fatalf("rule: %q", rule)
	}
}

func TestFinderEmptyKeys(t *testing.T) {
	f := NewDetailFinder([]internal.DetailRecord{{Solicitud: "1", Folio: "2"}})
	if rec, _ := f.Find("", ""); rec != nil {
		t.Fatalf("empty keys must not match: %+v", rec)
	}
}
