package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"dictamen/internal"
	"dictamen/internal/util"
	"dictamen/internal/xref"
)

// Deriver computes the display fields of a consolidated document from
// the loaded stores and the per-run indices.
type Deriver struct {
	Norms        []internal.NormRecord
	Clients      map[string]internal.ClientRecord
	Signatures   map[string]internal.SignatureRecord
	FolioClients map[int]string
	BackupDates  map[xref.PairKey]string
	PadWidth     int
}

func NewDeriver(
	norms []internal.NormRecord,
	clients []internal.ClientRecord,
	signatures []internal.SignatureRecord,
	folioClients map[int]string,
	backupDates map[xref.PairKey]string,
	padWidth int,
) *Deriver {
	clientIdx := make(map[string]internal.ClientRecord, len(clients))
	for _, c := range clients {
		clientIdx[c.Nombre] = c
	}
	signatureIdx := make(map[string]internal.SignatureRecord, len(signatures))
	for _, s := range signatures {
		signatureIdx[s.Clave] = s
	}
	return &Deriver{
		Norms:        norms,
		Clients:      clientIdx,
		Signatures:   signatureIdx,
		FolioClients: folioClients,
		BackupDates:  backupDates,
		PadWidth:     padWidth,
	}
}

// Row derives the 19 output fields. Every lookup falls back to the most
// specific raw value available; nothing here blocks emission.
func (d *Deriver) Row(doc *internal.Document) internal.ExportRow {
	row := internal.ExportRow{
		Solicitud:      doc.Solicitud,
		SolicitudCorta: util.SolicitudPrefix(doc.Solicitud),
		Folio:          DisplayFolio(doc.Folio, d.PadWidth),
	}

	row.Cliente = doc.Cliente
	if row.Cliente == "" {
		row.Cliente = d.FolioClients[FolioValue(doc.Folio)]
	}
	if client, ok := d.Clients[row.Cliente]; ok {
		row.Contrato = client.Contrato
		row.RFC = client.RFC
		row.CURP = client.CURP
	}

	producto := firstRawField(doc, func(r internal.RawRecord) string { return r.Producto })
	if total := TotalQuantity(doc); total != "" {
		row.Producto = strings.TrimSpace(total + " " + producto)
	} else {
		row.Producto = producto
	}

	row.Marcas = brandList(doc)
	row.Modelos = modelList(doc)
	row.Norma = d.resolveNorm(doc)
	row.TipoDocumento = firstRawField(doc, func(r internal.RawRecord) string { return r.TipoDocumento })
	row.Pedimento = firstRawField(doc, func(r internal.RawRecord) string { return r.Pedimento })
	row.ClaveFirma = firstRawField(doc, func(r internal.RawRecord) string { return r.ClaveFirma })
	if sig, ok := d.Signatures[row.ClaveFirma]; ok {
		row.Inspector = sig.Nombre
	}

	ident := ""
	if doc.Detail != nil {
		ident = doc.Detail.Identificacion
	}
	token := SolicitudToken(ident, doc.Solicitud)
	row.Constancia = EmittedLabel(token, doc.Solicitud, row.Folio)

	emision := firstRawField(doc, func(r internal.RawRecord) string { return r.FechaEmision })
	if emision == "" {
		if entrada, ok := d.BackupDates[xref.MakePairKey(doc.Solicitud, doc.Folio)]; ok {
			emision = entrada
		} else {
			emision = doc.FechaEntrada
		}
	}
	row.FechaDocumento = util.DisplayDate(emision)
	row.FechaVisita = util.DisplayDate(firstRawField(doc, func(r internal.RawRecord) string { return r.FechaVisita }))
	row.FechaDesaduanamiento = util.DisplayDate(firstRawField(doc, func(r internal.RawRecord) string { return r.FechaDesaduanamiento }))

	return row
}

// resolveNorm prefers the detail record's norm code, then maps the
// short classification code through the norm catalog: padded 3-digit
// substring first, raw substring second, bare code text as last resort.
func (d *Deriver) resolveNorm(doc *internal.Document) string {
	code := ""
	if doc.Detail != nil {
		code = strings.TrimSpace(doc.Detail.Norma)
	}
	if code == "" {
		code = strings.TrimSpace(firstRawField(doc, func(r internal.RawRecord) string { return r.ClaveNorma }))
	}
	if code == "" {
		return ""
	}

	if n, err := strconv.Atoi(code); err == nil {
		padded := fmt.Sprintf("%03d", n)
		for _, norm := range d.Norms {
			if strings.Contains(norm.Codigo, padded) {
				return norm.Codigo
			}
		}
	}
	for _, norm := range d.Norms {
		if strings.Contains(norm.Codigo, code) {
			return norm.Codigo
		}
	}
	return code
}

// SolicitudToken pulls the solicitud token out of an identification
// string: text after the service marker up to the next "/", else the
// first whitespace token with any "/..." tail stripped, else the raw
// solicitud itself.
func SolicitudToken(ident, solicitud string) string {
	const marker = "Solicitud de Servicio:"

	trimmed := strings.TrimSpace(ident)
	if trimmed == "" {
		return solicitud
	}
	if idx := strings.Index(trimmed, marker); idx >= 0 {
		rest := strings.TrimSpace(trimmed[idx+len(marker):])
		if cut := strings.IndexByte(rest, '/'); cut >= 0 {
			rest = rest[:cut]
		}
		if fields := strings.Fields(rest); len(fields) > 0 {
			return fields[0]
		}
		return solicitud
	}
	token := strings.Fields(trimmed)[0]
	if cut := strings.IndexByte(token, '/'); cut >= 0 {
		token = token[:cut]
	}
	return token
}

// EmittedLabel composes token-suffix-folio, skipping the suffix when
// the token already carries it.
func EmittedLabel(token, solicitud, folio string) string {
	label := token
	if suffix := util.SolicitudSuffix(solicitud); suffix != "" && !strings.HasSuffix(label, suffix) {
		label += "-" + suffix
	}
	if folio != "" {
		label += "-" + folio
	}
	return label
}

// TotalQuantity sums the document's quantities, detail line items
// winning over relation rows when both carry them. Zero renders empty.
func TotalQuantity(doc *internal.Document) string {
	if doc.Detail != nil {
		total, found := 0.0, false
		for _, item := range doc.Detail.Partidas {
			if item.Cantidad != nil {
				total += *item.Cantidad
				found = true
			}
		}
		if found {
			return util.FormatQuantity(total)
		}
	}
	total := 0.0
	for _, raw := range doc.Raws {
		if raw.Cantidad != nil {
			total += *raw.Cantidad
		}
	}
	return util.FormatQuantity(total)
}

func firstRawField(doc *internal.Document, pick func(internal.RawRecord) string) string {
	for _, raw := range doc.Raws {
		if v := strings.TrimSpace(pick(raw)); v != "" {
			return v
		}
	}
	return ""
}

func brandList(doc *internal.Document) string {
	if doc.Detail != nil {
		if brands := joinUnique(doc.Detail.Partidas, func(i internal.DetailItem) string { return i.Marca }); brands != "" {
			return brands
		}
	}
	return joinUnique(doc.Raws, func(r internal.RawRecord) string { return r.Marca })
}

func modelList(doc *internal.Document) string {
	if doc.Detail != nil {
		if models := joinUnique(doc.Detail.Partidas, func(i internal.DetailItem) string { return i.Codigo }); models != "" {
			return models
		}
	}
	return joinUnique(doc.Raws, func(r internal.RawRecord) string { return r.Modelo })
}

func joinUnique[T any](items []T, pick func(T) string) string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		v := strings.TrimSpace(pick(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return strings.Join(out, ", ")
}
