// Package evidence matches identifier codes against image filenames in
// the configured base directories, with the same tolerant-normalization
// philosophy as the reconciliation engine.
package evidence

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dictamen/internal/config"
	"dictamen/internal/util"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".tif": {}, ".tiff": {},
}

type fileEntry struct {
	path     string
	name     string // base name with extension
	bare     string // base name, extension stripped
	stripped string // StripSeparators(bare)
}

// Matcher holds the per-run file index. Enumeration order is base list
// order then filename order, so runs over an unchanged tree repeat
// exactly.
type Matcher struct {
	files []fileEntry
	log   *slog.Logger
}

func NewMatcher(groups []config.EvidenceGroup, log *slog.Logger) *Matcher {
	m := &Matcher{log: log}
	for _, group := range groups {
		for _, base := range group.Bases {
			if group.Recursive {
				m.indexRecursive(group.Name, base)
			} else {
				m.indexFlat(group.Name, base)
			}
		}
	}
	return m
}

func (m *Matcher) indexFlat(group, base string) {
	entries, err := os.ReadDir(base)
	if err != nil {
		m.log.Warn("evidence base unavailable", "group", group, "base", base, "err", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m.addFile(filepath.Join(base, entry.Name()))
	}
}

func (m *Matcher) indexRecursive(group, base string) {
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			m.addFile(path)
		}
		return nil
	})
	if err != nil {
		m.log.Warn("evidence base unavailable", "group", group, "base", base, "err", err)
	}
}

func (m *Matcher) addFile(path string) {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := imageExtensions[ext]; !ok {
		return
	}
	bare := strings.TrimSuffix(name, filepath.Ext(name))
	m.files = append(m.files, fileEntry{
		path:     path,
		name:     name,
		bare:     bare,
		stripped: util.StripSeparators(bare),
	})
}

// Find returns the matching paths per code. The passes run in strict
// precedence and stop at the first one with results; a code without
// matches yields an empty list, never an error.
func (m *Matcher) Find(codes []string) map[string][]string {
	out := make(map[string][]string, len(codes))
	for _, code := range codes {
		out[code] = m.findOne(code)
	}
	return out
}

func (m *Matcher) findOne(code string) []string {
	// Pass 1: the file's bare name equals the normalized code.
	normCode := util.NormalizeKey(code)
	if paths := m.pass(func(f fileEntry) bool {
		return normCode != "" && f.bare == normCode
	}); len(paths) > 0 {
		return paths
	}

	if paths := m.pass(func(f fileEntry) bool {
		return code != "" && strings.Contains(f.name, code)
	}); len(paths) > 0 {
		return paths
	}

	variants := util.KeyVariants(code)
	return m.pass(func(f fileEntry) bool {
		for _, v := range variants {
			if f.stripped == v {
				return true
			}
		}
		return false
	})
}

func (m *Matcher) pass(match func(fileEntry) bool) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, f := range m.files {
		if !match(f) {
			continue
		}
		if _, ok := seen[f.path]; ok {
			continue
		}
		seen[f.path] = struct{}{}
		out = append(out, f.path)
	}
	return out
}
