package storage

import (
	"crypto/rand"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a time-ordered unique id for object names
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ObjectKey joins cleaned segments into a key and appends "<name>-<ulid><ext>".
// ObjectKey([]string{"applications", "sess-1"}, "resume", ".pdf") -> applications/sess-1/resume-01J....pdf
func ObjectKey(prefix []string, name, ext string) string {
	segments := make([]string, 0, len(prefix)+1)
	for _, p := range prefix {
		if p = cleanSegment(p); p != "" {
			segments = append(segments, p)
		}
	}

	file := NewID()
	if name = cleanSegment(name); name != "" {
		file = name + "-" + file
	}
	segments = append(segments, file+strings.ToLower(ext))
	return path.Join(segments...)
}

func cleanSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.Trim(s, "/\\")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, s)
}
