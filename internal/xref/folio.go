// Package xref builds the per-run lookup indices: folio→client from
// visit ranges, (solicitud, folio)→entry date from snapshots, and the
// detail-record finder. Indices are built once per run and never
// mutated afterwards.
package xref

import (
	"log/slog"
	"strconv"
	"strings"

	"dictamen/internal"
)

// BuildFolioClients expands each visit's "<start> - <end>" folio range
// into per-folio client entries. Later visits overwrite earlier ones;
// ranges should not legitimately overlap, so overlap is only logged.
func BuildFolioClients(visits []internal.VisitRecord, log *slog.Logger) map[int]string {
	out := make(map[int]string, len(visits))
	for _, visit := range visits {
		start, end, ok := parseFolioRange(visit.RangoFolios)
		if !ok {
			log.Warn("visit folio range unparsable", "cliente", visit.Cliente, "rango", visit.RangoFolios)
			continue
		}
		for folio := start; folio <= end; folio++ {
			if prev, dup := out[folio]; dup && prev != visit.Cliente {
				log.Warn("overlapping visit folio range", "folio", folio, "kept", visit.Cliente, "replaced", prev)
			}
			out[folio] = visit.Cliente
		}
	}
	return out
}

func parseFolioRange(rango string) (int, int, bool) {
	parts := strings.Split(rango, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}
