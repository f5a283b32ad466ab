package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"dictamen/internal"
	"dictamen/internal/util"
)

var (
	reDictamenToken  = regexp.MustCompile(`(?i)\b(\d{2})049UDC(\d{3})(\d+)\b`)
	reSolicitudToken = regexp.MustCompile(`(?i)\b(\d{2})049USD(\d{3})(\d+)(?:-(\w+))?`)
)

// DetailRecords scans the details directory. JSON files carry the full
// structured record; PDFs are read for their identification string; a
// file neither readable nor recognizable still contributes a
// filename-derived candidate so the finder can attempt a match.
func (l *Loader) DetailRecords() []internal.DetailRecord {
	dir := l.cfg.DetailsDir
	if strings.TrimSpace(dir) == "" {
		l.log.Warn("store not configured", "store", "details")
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.log.Warn("store unavailable", "store", "details", "path", dir, "err", err)
		return nil
	}

	out := make([]internal.DetailRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json":
			rec, err := readDetailJSON(path)
			if err != nil {
				l.log.Warn("detail file unreadable", "path", path, "err", err)
				out = append(out, detailFromFilename(path))
				continue
			}
			out = append(out, rec)
		case ".pdf":
			rec, ok := l.readDetailPDF(path)
			if !ok {
				out = append(out, detailFromFilename(path))
				continue
			}
			out = append(out, rec)
		}
	}
	return out
}

func readDetailJSON(path string) (internal.DetailRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return internal.DetailRecord{}, err
	}
	var rec internal.DetailRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return internal.DetailRecord{}, err
	}
	rec.SourcePath = path
	return rec, nil
}

func (l *Loader) readDetailPDF(path string) (internal.DetailRecord, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.log.Warn("detail file unreadable", "path", path, "err", err)
		return internal.DetailRecord{}, false
	}
	text, err := pdfText(raw)
	if err != nil || strings.TrimSpace(text) == "" {
		return internal.DetailRecord{}, false
	}
	rec, ok := parseIdentificationText(text)
	if !ok {
		return internal.DetailRecord{}, false
	}
	rec.SourcePath = path
	return rec, true
}

func pdfText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// parseIdentificationText reads the templated identification string,
// e.g. "25049UDC004075339 Solicitud de Servicio: 25049USD004006916-1".
func parseIdentificationText(text string) (internal.DetailRecord, bool) {
	dictamen := reDictamenToken.FindStringSubmatch(text)
	solicitud := reSolicitudToken.FindStringSubmatch(text)
	if dictamen == nil && solicitud == nil {
		return internal.DetailRecord{}, false
	}

	rec := internal.DetailRecord{}
	if dictamen != nil {
		rec.Norma = dictamen[2]
		rec.Folio = dictamen[3]
		rec.Identificacion = dictamen[0]
	}
	if solicitud != nil {
		if rec.Norma == "" {
			rec.Norma = solicitud[2]
		}
		rec.Solicitud = solicitud[3]
		rec.Lista = solicitud[4]
		if rec.Identificacion != "" {
			rec.Identificacion += " Solicitud de Servicio: " + solicitud[0]
		} else {
			rec.Identificacion = solicitud[0]
		}
	}
	return rec, true
}

// detailFromFilename builds the last-resort candidate: the longest
// digit run is the folio guess, the first alphanumeric run of length
// >=4 the solicitud guess.
func detailFromFilename(path string) internal.DetailRecord {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return internal.DetailRecord{
		Folio:          util.LongestDigitRun(base),
		Solicitud:      util.FirstAlnumRun(base, 4),
		Identificacion: base,
		SourcePath:     path,
		FromFilename:   true,
	}
}
