// Package pipeline turns raw relation rows into the consolidated,
// derived, filtered row list the exporter consumes.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"dictamen/internal"
	"dictamen/internal/xref"
)

// FieldSource ranks where a field value came from. Detail records win
// over relation rows for any field both could supply.
type FieldSource int

const (
	SourceRaw FieldSource = iota + 1
	SourceDetail
)

// GroupDocuments groups raw rows by their exact (solicitud, folio)
// string pair and attaches the best detail record per group. Rows with
// empty keys still form a group; nothing is dropped here.
func GroupDocuments(raws []internal.RawRecord, finder *xref.DetailFinder, log *slog.Logger) []*internal.Document {
	type pair struct{ solicitud, folio string }

	byPair := map[pair]*internal.Document{}
	order := make([]pair, 0, len(raws))
	for _, raw := range raws {
		key := pair{raw.Solicitud, raw.Folio}
		doc, ok := byPair[key]
		if !ok {
			doc = &internal.Document{Solicitud: raw.Solicitud, Folio: raw.Folio}
			byPair[key] = doc
			order = append(order, key)
		}
		doc.Raws = append(doc.Raws, raw)
	}

	out := make([]*internal.Document, 0, len(order))
	for _, key := range order {
		doc := byPair[key]
		if detail, rule := finder.Find(doc.Solicitud, doc.Folio); detail != nil {
			doc.Detail = detail
			mergeDetail(doc, detail)
			log.Debug("detail attached", "solicitud", doc.Solicitud, "folio", doc.Folio, "rule", rule)
		}
		out = append(out, doc)
	}
	return out
}

// mergeField applies the source-priority rule in one place: a higher
// priority source overwrites, an equal or lower one only fills gaps.
func mergeField(current string, currentSrc FieldSource, value string, src FieldSource) (string, FieldSource) {
	if value == "" {
		return current, currentSrc
	}
	if current == "" || src > currentSrc {
		return value, src
	}
	return current, currentSrc
}

// mergeDetail folds detail keys into the document. The grouping keys
// rank as detail-sourced so an attached detail never rewrites them; it
// only fills the sides the relation rows left blank.
func mergeDetail(doc *internal.Document, detail *internal.DetailRecord) {
	doc.Solicitud, _ = mergeField(doc.Solicitud, SourceDetail, detail.Solicitud, SourceDetail)
	doc.Folio, _ = mergeField(doc.Folio, SourceDetail, detail.Folio, SourceDetail)
}

// DisplayFolio renders the external identity of a document: the folio
// zero-padded to the fixed width. Non-numeric folios pass through
// unpadded so distinct malformed values cannot collide.
func DisplayFolio(folio string, width int) string {
	trimmed := strings.TrimSpace(folio)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		if trimmed == "" {
			n = 0
		} else {
			return trimmed
		}
	}
	return fmt.Sprintf("%0*d", width, n)
}

// FolioValue is the sort key: numeric folio value, 0 when malformed so
// bad folios sort to the front instead of crashing the ordering.
func FolioValue(folio string) int {
	n, err := strconv.Atoi(strings.TrimSpace(folio))
	if err != nil {
		return 0
	}
	return n
}

// Consolidate reduces candidates to exactly one document per display
// folio key: the candidate holding a detail record wins, otherwise the
// first encountered. Output is sorted ascending by numeric folio.
func Consolidate(docs []*internal.Document, padWidth int, log *slog.Logger) []*internal.Document {
	byDisplay := map[string]*internal.Document{}
	order := make([]string, 0, len(docs))
	for _, doc := range docs {
		key := DisplayFolio(doc.Folio, padWidth)
		kept, ok := byDisplay[key]
		if !ok {
			byDisplay[key] = doc
			order = append(order, key)
			continue
		}
		if kept.Detail == nil && doc.Detail != nil {
			byDisplay[key] = doc
		}
		log.Warn("display folio collision", "folio", key, "solicitud", doc.Solicitud, "kept", byDisplay[key].Solicitud)
	}

	out := make([]*internal.Document, 0, len(order))
	for _, key := range order {
		out = append(out, byDisplay[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return FolioValue(out[i].Folio) < FolioValue(out[j].Folio)
	})
	return out
}
