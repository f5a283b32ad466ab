package pipeline

import (
	"testing"

	"dictamen/internal"
	"dictamen/internal/util"
	"dictamen/internal/xref"
)

func testDeriver(norms []internal.NormRecord) *Deriver {
	return NewDeriver(norms, nil, nil, nil, nil, 6)
}

func TestResolveNormPrefersDetail(t *testing.T) {
	norms := []internal.NormRecord{
		{Clave: "4", Codigo: "NOM-004-SE-2021"},
		{Clave: "20", Codigo: "NOM-020-SCFI-1997"},
	}
	d := testDeriver(norms)

	doc := &internal.Document{
		Raws:   []internal.RawRecord{{ClaveNorma: "20"}},
		Detail: &internal.DetailRecord{Norma: "004"},
	}
	if got := d.resolveNorm(doc); got != "NOM-004-SE-2021" {
		t.Fatalf("detail norm must win: %q", got)
	}
}

func TestResolveNormPaddedThenRaw(t *testing.T) {
	norms := []internal.NormRecord{
		{Clave: "4", Codigo: "NOM-004-SE-2021"},
	}
	d := testDeriver(norms)

	doc := &internal.Document{Raws: []internal.RawRecord{{ClaveNorma: "4"}}}
	if got := d.resolveNorm(doc); got != "NOM-004-SE-2021" {
		t.Fatalf("padded form must match: %q", got)
	}

	// No catalog hit: the bare code is the display text.
	doc = &internal.Document{Raws: []internal.RawRecord{{ClaveNorma: "999"}}}
	if got := d.resolveNorm(doc); got != "999" {
		t.Fatalf("unresolved norm must fall back to the code: %q", got)
	}
}

func TestSolicitudToken(t *testing.T) {
	ident := "25049UDC004075339 Solicitud de Servicio: 25049USD004006916-1/25"
	if got := SolicitudToken(ident, "x"); got != "25049USD004006916-1" {
		t.Fatalf("marker token: %q", got)
	}
	if got := SolicitudToken("25049UDC004075339/25 extra", "x"); got != "25049UDC004075339" {
		t.Fatalf("first-token fallback: %q", got)
	}
	if got := SolicitudToken("", "006916/25"); got != "006916/25" {
		t.Fatalf("raw solicitud fallback: %q", got)
	}
}

func TestEmittedLabel(t *testing.T) {
	if got := EmittedLabel("TOK", "006916/25", "075339"); got != "TOK-25-075339" {
		t.Fatalf("label: %q", got)
	}
	// A token already ending with the suffix is not doubled.
	if got := EmittedLabel("TOK-25", "006916/25", "075339"); got != "TOK-25-075339" {
		t.Fatalf("suffix doubled: %q", got)
	}
	if got := EmittedLabel("TOK", "006916", "075339"); got != "TOK-075339" {
		t.Fatalf("no-suffix label: %q", got)
	}
}

func TestTotalQuantity(t *testing.T) {
	doc := &internal.Document{Raws: []internal.RawRecord{
		{Cantidad: util.FloatPtr(2)},
		{Cantidad: nil},
		{Cantidad: util.FloatPtr(3.5)},
	}}
	if got := TotalQuantity(doc); got != "5.5" {
		t.Fatalf("raw sum: %q", got)
	}

	doc.Detail = &internal.DetailRecord{Partidas: []internal.DetailItem{
		{Codigo: "K-I.154", Cantidad: util.FloatPtr(10)},
	}}
	if got := TotalQuantity(doc); got != "10" {
		t.Fatalf("detail items must win: %q", got)
	}

	empty := &internal.Document{Raws: []internal.RawRecord{{}}}
	if got := TotalQuantity(empty); got != "" {
		t.Fatalf("zero must print empty: %q", got)
	}
}

func TestRowSourcePriority(t *testing.T) {
	norms := []internal.NormRecord{
		{Clave: "4", Codigo: "NOM-004-SE-2021"},
		{Clave: "20", Codigo: "NOM-020-SCFI-1997"},
	}
	d := testDeriver(norms)

	doc := &internal.Document{
		Solicitud: "006916/25",
		Folio:     "075339",
		Raws:      []internal.RawRecord{{ClaveNorma: "20", Marca: "GENERICA"}},
		Detail: &internal.DetailRecord{
			Norma:    "004",
			Partidas: []internal.DetailItem{{Codigo: "K-I.154", Marca: "ACME"}},
		},
	}
	row := d.Row(doc)
	if row.Norma != "NOM-004-SE-2021" {
		t.Fatalf("norm must come from the detail record: %q", row.Norma)
	}
	if row.Marcas != "ACME" {
		t.Fatalf("brands must come from detail items: %q", row.Marcas)
	}
	if row.Modelos != "K-I.154" {
		t.Fatalf("models must come from detail items: %q", row.Modelos)
	}
	if row.Folio != "075339" || row.SolicitudCorta != "006916" {
		t.Fatalf("keys: folio=%q corta=%q", row.Folio, row.SolicitudCorta)
	}
}

func TestRowClientAndInspectorLookups(t *testing.T) {
	clients := []internal.ClientRecord{
		{Nombre: "ACME", Contrato: "C-88", RFC: "ACM010101XX0", CURP: "XEXX010101HNEXXXA4"},
	}
	signatures := []internal.SignatureRecord{
		{Clave: "JRL", Nombre: "J. Robles"},
	}
	folioClients := map[int]string{75339: "ACME"}
	d := NewDeriver(nil, clients, signatures, folioClients, nil, 6)

	doc := &internal.Document{
		Solicitud: "006916/25",
		Folio:     "075339",
		Raws:      []internal.RawRecord{{ClaveFirma: "JRL"}},
	}
	row := d.Row(doc)
	if row.Cliente != "ACME" || row.Contrato != "C-88" || row.RFC != "ACM010101XX0" {
		t.Fatalf("client lookup: %+v", row)
	}
	if row.Inspector != "J. Robles" || row.ClaveFirma != "JRL" {
		t.Fatalf("inspector lookup: %+v", row)
	}
}

func TestRowBackupDateFallback(t *testing.T) {
	backup := map[xref.PairKey]string{
		xref.MakePairKey("006916/25", "075339"): "2025-01-10",
	}
	d := NewDeriver(nil, nil, nil, nil, backup, 6)

	doc := &internal.Document{Solicitud: "006916/25", Folio: "075339", Raws: []internal.RawRecord{{}}}
	row := d.Row(doc)
	if row.FechaDocumento != "10/01/2025" {
		t.Fatalf("backup entry date must fill a missing emission date: %q", row.FechaDocumento)
	}
}
