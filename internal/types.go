package internal

// RawRecord is one row of the primary relation table. Dates stay as the
// verbatim cell text; parsing happens at derivation time.
type RawRecord struct {
	Solicitud string
	Folio     string

	Producto      string
	Marca         string
	Modelo        string
	Factura       string
	Pedimento     string
	TipoDocumento string
	ClaveNorma    string
	ClaveFirma    string
	Cantidad      *float64

	FechaVisita          string
	FechaEmision         string
	FechaDesaduanamiento string
	FechaSolicitud       string
}

// DetailItem is one line item inside a detail record.
type DetailItem struct {
	Codigo   string   `json:"codigo"`
	Marca    string   `json:"marca"`
	Cantidad *float64 `json:"cantidad"`
}

// DetailRecord is the richer per-document record kept next to the
// relation table. At most one attaches to a document; when it does, its
// fields win over anything derived from RawRecords.
type DetailRecord struct {
	Solicitud      string       `json:"solicitud"`
	Folio          string       `json:"folio"`
	Lista          string       `json:"lista"`
	Norma          string       `json:"norma"`
	Identificacion string       `json:"identificacion"`
	Partidas       []DetailItem `json:"partidas"`

	SourcePath   string `json:"-"`
	FromFilename bool   `json:"-"`
}

type ClientRecord struct {
	Nombre   string
	Contrato string
	RFC      string
	CURP     string
}

type SignatureRecord struct {
	Clave  string
	Nombre string
	Cedula string
}

type NormRecord struct {
	Clave    string
	Codigo   string
	Nombre   string
	Capitulo string
}

// VisitRecord carries a textual folio range ("075339 - 075552") that is
// expanded into per-folio client entries by the index builder.
type VisitRecord struct {
	Cliente     string
	RangoFolios string
	Fecha       string
}

// SnapshotRow is one row of a historical relation-table snapshot; only
// the key pair and the entry date survive loading.
type SnapshotRow struct {
	Solicitud    string
	Folio        string
	FechaEntrada string
}

// Document is the reconciled entity: one logical certificate, keyed by
// its (solicitud, folio) pair and owning every contributing source row.
type Document struct {
	Solicitud string
	Folio     string

	Raws   []RawRecord
	Detail *DetailRecord

	Cliente      string
	FechaEntrada string
}

// ExportRow is the fixed 19-column output schema, in column order.
type ExportRow struct {
	Solicitud            string
	Cliente              string
	Contrato             string
	RFC                  string
	CURP                 string
	Producto             string
	Marcas               string
	Norma                string
	TipoDocumento        string
	Constancia           string
	FechaDocumento       string
	Inspector            string
	Pedimento            string
	FechaDesaduanamiento string
	FechaVisita          string
	Modelos              string
	SolicitudCorta       string
	Folio                string
	ClaveFirma           string
}

// RunRow is one persisted reconciliation run.
type RunRow struct {
	ID          int
	TraceID     string
	CountsJSON  string
	TimingsJSON string
	CreatedAt   string
}
