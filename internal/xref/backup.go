package xref

import (
	"dictamen/internal"
	"dictamen/internal/util"
)

// PairKey is the normalized (solicitud-prefix, folio) identity used by
// the backup-date index and the detail finder.
type PairKey struct {
	Solicitud string
	Folio     string
}

// MakePairKey normalizes both sides; the solicitud keeps only its part
// before the "/year" suffix.
func MakePairKey(solicitud, folio string) PairKey {
	return PairKey{
		Solicitud: util.NormalizeKey(util.SolicitudPrefix(solicitud)),
		Folio:     util.NormalizeKey(folio),
	}
}

// BuildBackupDates maps each key pair to its entry date across all
// snapshot rows, keeping the first occurrence: the earliest recorded
// value is preferred over later corrections.
func BuildBackupDates(snapshots []internal.SnapshotRow) map[PairKey]string {
	out := make(map[PairKey]string, len(snapshots))
	for _, row := range snapshots {
		if row.FechaEntrada == "" {
			continue
		}
		key := MakePairKey(row.Solicitud, row.Folio)
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = row.FechaEntrada
	}
	return out
}
