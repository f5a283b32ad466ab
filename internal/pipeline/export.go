package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dictamen/internal"
)

// exportHeaders is the fixed 19-column output schema, in order.
var exportHeaders = []string{
	"solicitud", "cliente", "contrato", "rfc", "curp",
	"producto_verificado", "marcas", "norma", "tipo_documento", "constancia",
	"fecha_documento", "inspector", "pedimento", "fecha_desaduanamiento",
	"fecha_visita", "modelos", "solicitud_corta", "folio", "clave_firma",
}

func rowValues(row internal.ExportRow) []string {
	return []string{
		row.Solicitud, row.Cliente, row.Contrato, row.RFC, row.CURP,
		row.Producto, row.Marcas, row.Norma, row.TipoDocumento, row.Constancia,
		row.FechaDocumento, row.Inspector, row.Pedimento, row.FechaDesaduanamiento,
		row.FechaVisita, row.Modelos, row.SolicitudCorta, row.Folio, row.ClaveFirma,
	}
}

// ExportRowsToXLSX writes the consolidated rows. A write failure here
// is the one hard failure of a run; it propagates to the caller.
func ExportRowsToXLSX(rows []internal.ExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		for col, value := range rowValues(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ReadExportXLSX parses a file written by ExportRowsToXLSX back into
// rows, preserving order.
func ReadExportXLSX(path string) ([]internal.ExportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]internal.ExportRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		get := func(i int) string {
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}
		out = append(out, internal.ExportRow{
			Solicitud: get(0), Cliente: get(1), Contrato: get(2), RFC: get(3), CURP: get(4),
			Producto: get(5), Marcas: get(6), Norma: get(7), TipoDocumento: get(8), Constancia: get(9),
			FechaDocumento: get(10), Inspector: get(11), Pedimento: get(12), FechaDesaduanamiento: get(13),
			FechaVisita: get(14), Modelos: get(15), SolicitudCorta: get(16), Folio: get(17), ClaveFirma: get(18),
		})
	}
	return out, nil
}
