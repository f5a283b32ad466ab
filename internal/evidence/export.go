package evidence

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportMatchesToXLSX writes one row per code: the code and its matched
// paths, in the caller's code order.
func ExportMatchesToXLSX(codes []string, matches map[string][]string, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range []string{"codigo", "evidencias", "rutas"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, code := range codes {
		r := i + 2
		paths := matches[code]
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, code)
		set(2, len(paths))
		set(3, strings.Join(paths, "; "))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
