// Package store loads the named input datasets. Every loader is
// permissive: a missing or malformed source logs a warning and yields
// an empty collection, so a partial run beats no run.
package store

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"dictamen/internal"
	"dictamen/internal/config"
	"dictamen/internal/util"
)

type Loader struct {
	cfg config.StoresConfig
	log *slog.Logger
}

func NewLoader(cfg config.StoresConfig, log *slog.Logger) *Loader {
	return &Loader{cfg: cfg, log: log}
}

func (l *Loader) Clients() []internal.ClientRecord {
	rows, header := l.openStore("clients", l.cfg.Clients)
	out := make([]internal.ClientRecord, 0, len(rows))
	for _, row := range rows {
		rec := internal.ClientRecord{
			Nombre:   header.cell(row, "CLIENTE", "NOMBRE", "RAZONSOCIAL"),
			Contrato: header.cell(row, "CONTRATO", "NOCONTRATO"),
			RFC:      header.cell(row, "RFC"),
			CURP:     header.cell(row, "CURP"),
		}
		if rec.Nombre == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *Loader) Signatures() []internal.SignatureRecord {
	rows, header := l.openStore("signatures", l.cfg.Signatures)
	out := make([]internal.SignatureRecord, 0, len(rows))
	for _, row := range rows {
		rec := internal.SignatureRecord{
			Clave:  header.cell(row, "CLAVE", "CLAVEFIRMA"),
			Nombre: header.cell(row, "NOMBRE", "INSPECTOR"),
			Cedula: header.cell(row, "CEDULA"),
		}
		if rec.Clave == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *Loader) Norms() []internal.NormRecord {
	rows, header := l.openStore("norms", l.cfg.Norms)
	out := make([]internal.NormRecord, 0, len(rows))
	for _, row := range rows {
		rec := internal.NormRecord{
			Clave:    header.cell(row, "CLAVE"),
			Codigo:   header.cell(row, "CODIGO", "NOM", "NORMA"),
			Nombre:   header.cell(row, "NOMBRE", "DESCRIPCION"),
			Capitulo: header.cell(row, "CAPITULO"),
		}
		if rec.Codigo == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *Loader) Visits() []internal.VisitRecord {
	rows, header := l.openStore("visits", l.cfg.Visits)
	out := make([]internal.VisitRecord, 0, len(rows))
	for _, row := range rows {
		rec := internal.VisitRecord{
			Cliente:     header.cell(row, "CLIENTE", "NOMBRE"),
			RangoFolios: header.cell(row, "FOLIOS", "RANGOFOLIOS", "RANGO"),
			Fecha:       header.cell(row, "FECHA", "FECHAVISITA"),
		}
		if rec.Cliente == "" && rec.RangoFolios == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (l *Loader) RelationRows() []internal.RawRecord {
	rows, header := l.openStore("relation", l.cfg.Relation)
	out := make([]internal.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := internal.RawRecord{
			Solicitud:     header.cell(row, "SOLICITUD"),
			Folio:         header.cell(row, "FOLIO"),
			Producto:      header.cell(row, "PRODUCTO", "PRODUCTOVERIFICADO", "DESCRIPCION"),
			Marca:         header.cell(row, "MARCA", "MARCAS"),
			Modelo:        header.cell(row, "MODELO", "MODELOS"),
			Factura:       header.cell(row, "FACTURA"),
			Pedimento:     header.cell(row, "PEDIMENTO"),
			TipoDocumento: header.cell(row, "TIPODOCUMENTO", "TIPO"),
			ClaveNorma:    header.cell(row, "CLAVENORMA", "NORMA"),
			ClaveFirma:    header.cell(row, "CLAVEFIRMA", "FIRMA"),

			FechaVisita:          header.cell(row, "FECHAVISITA"),
			FechaEmision:         header.cell(row, "FECHAEMISION", "FECHADOCUMENTO"),
			FechaDesaduanamiento: header.cell(row, "FECHADESADUANAMIENTO", "DESADUANAMIENTO"),
			FechaSolicitud:       header.cell(row, "FECHASOLICITUD"),
		}
		rec.Cantidad = util.ParseQuantity(header.cell(row, "CANTIDAD"))
		if rec.Solicitud == "" && rec.Folio == "" && rec.Producto == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// openStore returns the data rows of the first sheet plus the header
// index built from its first non-empty row. nil rows on any failure.
func (l *Loader) openStore(name, path string) ([][]string, headerIndex) {
	if strings.TrimSpace(path) == "" {
		l.log.Warn("store not configured", "store", name)
		return nil, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		l.log.Warn("store unavailable", "store", name, "path", path, "err", err)
		return nil, nil
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		l.log.Warn("store unreadable", "store", name, "path", path, "err", err)
		return nil, nil
	}

	for i, row := range rows {
		header := indexHeaders(row)
		if len(header) == 0 {
			continue
		}
		return rows[i+1:], header
	}
	return nil, nil
}

type headerIndex map[string]int

func indexHeaders(row []string) headerIndex {
	idx := headerIndex{}
	for i, cell := range row {
		key := util.NormalizeKey(cell)
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// cell returns the first non-empty value among the named columns.
func (h headerIndex) cell(row []string, names ...string) string {
	for _, name := range names {
		i, ok := h[name]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}
