package xref

import (
	"testing"

	"dictamen/internal"
	"dictamen/internal/logging"
)

func TestBuildFolioClients(t *testing.T) {
	visits := []internal.VisitRecord{
		{Cliente: "ACME", RangoFolios: "000100 - 000102"},
	}
	idx := BuildFolioClients(visits, logging.Discard())

	for _, folio := range []int{100, 101, 102} {
		if idx[folio] != "ACME" {
			t.Fatalf("folio %d: got %q", folio, idx[folio])
		}
	}
	for _, folio := range []int{99, 103} {
		if _, ok := idx[folio]; ok {
			t.Fatalf("folio %d must not be mapped", folio)
		}
	}
}

func TestBuildFolioClientsOverlapLastWins(t *testing.T) {
	visits := []internal.VisitRecord{
		{Cliente: "ACME", RangoFolios: "10 - 12"},
		{Cliente: "GLOBEX", RangoFolios: "12 - 13"},
	}
	idx := BuildFolioClients(visits, logging.Discard())
	if idx[12] != "GLOBEX" {
		t.Fatalf("overlap must keep the later visit, got %q", idx[12])
	}
	if idx[10] != "ACME" {
		t.Fatalf("non-overlapping entries must survive, got %q", idx[10])
	}
}

func TestBuildFolioClientsBadRange(t *testing.T) {
	visits := []internal.VisitRecord{
		{Cliente: "ACME", RangoFolios: "varios"},
		{Cliente: "ACME", RangoFolios: "20 - 10"},
		{Cliente: "GLOBEX", RangoFolios: "5 - 5"},
	}
	idx := BuildFolioClients(visits, logging.Discard())
	if len(idx) != 1 || idx[5] != "GLOBEX" {
		t.Fatalf("only the valid single-folio range should remain: %v", idx)
	}
}

func TestBuildBackupDatesFirstWins(t *testing.T) {
	snaps := []internal.SnapshotRow{
		{Solicitud: "006916/25", Folio: "075339", FechaEntrada: "2025-01-10"},
		{Solicitud: "006916/25", Folio: "075339", FechaEntrada: "2025-02-20"},
		{Solicitud: "006916/25", Folio: "075340", FechaEntrada: ""},
	}
	idx := BuildBackupDates(snaps)

	key := MakePairKey("006916/25", "075339")
	if idx[key] != "2025-01-10" {
		t.Fatalf("first occurrence must win, got %q", idx[key])
	}
	if _, ok := idx[MakePairKey("006916/25", "075340")]; ok {
		t.Fatal("dateless rows must not index")
	}
}

func TestMakePairKeyNormalizes(t *testing.T) {
	a := MakePairKey("006916/25", "075339")
	b := MakePairKey("006-916", "075.339")
	if a != b {
		t.Fatalf("keys differ: %v vs %v", a, b)
	}
	if a.Solicitud != "006916" || a.Folio != "075339" {
		t.Fatalf("unexpected key: %v", a)
	}
}
