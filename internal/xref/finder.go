package xref

import (
	"strings"

	"dictamen/internal"
	"dictamen/internal/util"
)

// DetailFinder locates the best detail record for a (solicitud, folio)
// pair. The precedence rules live in an explicit ordered resolver list
// so each rule stays independently testable.
type DetailFinder struct {
	byPair      map[PairKey]*internal.DetailRecord
	byFolio     map[string][]*internal.DetailRecord
	bySolicitud map[string][]*internal.DetailRecord
	all         []*internal.DetailRecord
}

type resolver struct {
	name string
	fn   func(f *DetailFinder, key PairKey) *internal.DetailRecord
}

var resolvers = []resolver{
	{"exact_pair", (*DetailFinder).byExactPair},
	{"folio_only", (*DetailFinder).byFolioOnly},
	{"solicitud_only", (*DetailFinder).bySolicitudOnly},
	{"containment", (*DetailFinder).byContainment},
}

func NewDetailFinder(details []internal.DetailRecord) *DetailFinder {
	f := &DetailFinder{
		byPair:      map[PairKey]*internal.DetailRecord{},
		byFolio:     map[string][]*internal.DetailRecord{},
		bySolicitud: map[string][]*internal.DetailRecord{},
	}
	for i := range details {
		rec := &details[i]
		key := MakePairKey(rec.Solicitud, rec.Folio)
		if key.Solicitud != "" && key.Folio != "" {
			if _, ok := f.byPair[key]; !ok {
				f.byPair[key] = rec
			}
		}
		if key.Folio != "" {
			f.byFolio[key.Folio] = append(f.byFolio[key.Folio], rec)
		}
		if key.Solicitud != "" {
			f.bySolicitud[key.Solicitud] = append(f.bySolicitud[key.Solicitud], rec)
		}
		f.all = append(f.all, rec)
	}
	return f
}

// Find tries each rule in precedence order and stops at the first hit.
// The rule name comes back for diagnostics.
func (f *DetailFinder) Find(solicitud, folio string) (*internal.DetailRecord, string) {
	key := MakePairKey(solicitud, folio)
	if key.Solicitud == "" && key.Folio == "" {
		return nil, ""
	}
	for _, r := range resolvers {
		if rec := r.fn(f, key); rec != nil {
			return rec, r.name
		}
	}
	return nil, ""
}

func (f *DetailFinder) byExactPair(key PairKey) *internal.DetailRecord {
	if key.Solicitud == "" || key.Folio == "" {
		return nil
	}
	return f.byPair[key]
}

// byFolioOnly applies when the solicitud side is unavailable.
func (f *DetailFinder) byFolioOnly(key PairKey) *internal.DetailRecord {
	if key.Folio == "" || key.Solicitud != "" {
		return nil
	}
	if matches := f.byFolio[key.Folio]; len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// bySolicitudOnly applies when the folio side is unavailable.
func (f *DetailFinder) bySolicitudOnly(key PairKey) *internal.DetailRecord {
	if key.Solicitud == "" || key.Folio != "" {
		return nil
	}
	if matches := f.bySolicitud[key.Solicitud]; len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// byContainment looks for the normalized solicitud prefix inside each
// record's verbatim identification string.
func (f *DetailFinder) byContainment(key PairKey) *internal.DetailRecord {
	if key.Solicitud == "" {
		return nil
	}
	for _, rec := range f.all {
		if strings.Contains(util.NormalizeKey(rec.Identificacion), key.Solicitud) {
			return rec
		}
	}
	return nil
}
