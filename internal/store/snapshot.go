package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dictamen/internal"
)

// Snapshots reads every xlsx under the snapshots directory in lexical
// filename order, so "first occurrence" downstream is deterministic.
func (l *Loader) Snapshots() []internal.SnapshotRow {
	dir := l.cfg.SnapshotsDir
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.log.Warn("store unavailable", "store", "snapshots", "path", dir, "err", err)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var out []internal.SnapshotRow
	for _, name := range names {
		rows, header := l.openStore("snapshot:"+name, filepath.Join(dir, name))
		for _, row := range rows {
			rec := internal.SnapshotRow{
				Solicitud:    header.cell(row, "SOLICITUD"),
				Folio:        header.cell(row, "FOLIO"),
				FechaEntrada: header.cell(row, "FECHAENTRADA", "ENTRADA", "FECHA"),
			}
			if rec.Folio == "" && rec.Solicitud == "" {
				continue
			}
			out = append(out, rec)
		}
	}
	return out
}
