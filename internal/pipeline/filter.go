package pipeline

import (
	"time"

	"dictamen/internal"
	"dictamen/internal/util"
)

// EffectiveDate resolves the date a document is filtered by: visit
// date first, then emission, desaduanamiento and solicitud dates. nil
// means no resolvable date.
func EffectiveDate(doc *internal.Document) *time.Time {
	for _, pick := range []func(internal.RawRecord) string{
		func(r internal.RawRecord) string { return r.FechaVisita },
		func(r internal.RawRecord) string { return r.FechaEmision },
		func(r internal.RawRecord) string { return r.FechaDesaduanamiento },
		func(r internal.RawRecord) string { return r.FechaSolicitud },
	} {
		if t := util.ParseDate(firstRawField(doc, pick)); t != nil {
			return t
		}
	}
	return nil
}

// FilterByDateRange keeps documents inside the inclusive [start, end]
// window. Documents with no resolvable date are kept: absent evidence
// must not silently disappear from a compliance report.
func FilterByDateRange(docs []*internal.Document, start, end *time.Time) []*internal.Document {
	if start == nil && end == nil {
		return docs
	}
	out := make([]*internal.Document, 0, len(docs))
	for _, doc := range docs {
		t := EffectiveDate(doc)
		if t == nil {
			out = append(out, doc)
			continue
		}
		if start != nil && t.Before(*start) {
			continue
		}
		if end != nil && t.After(*end) {
			continue
		}
		out = append(out, doc)
	}
	return out
}
