// Package folioseq issues folios from a file-lock-protected monotonic
// counter, so concurrent invocations on the same machine never hand out
// the same number twice.
package folioseq

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

type Counter struct {
	path  string
	lock  *flock.Flock
	width int
}

func New(path string, width int) *Counter {
	if width <= 0 {
		width = 6
	}
	return &Counter{
		path:  path,
		lock:  flock.New(path + ".lock"),
		width: width,
	}
}

// Next takes the lock, increments the stored value and returns the new
// folio zero-padded to the counter width.
func (c *Counter) Next() (string, error) {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return "", err
	}
	if err := c.lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire folio lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	current := 0
	if raw, err := os.ReadFile(c.path); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
			current = parsed
		}
	}

	next := current + 1
	if err := os.WriteFile(c.path, []byte(strconv.Itoa(next)), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", c.width, next), nil
}
