package wizard

import (
	"strconv"
	"strings"
)

// ProfileList - the "competitive profiles" list of URLs
type ProfileList []string

// Add appends url at the end
func (l ProfileList) Add(url string) ProfileList {
	return append(l, url)
}

// RemoveAt drops index i and keeps the remaining order; out of range is a no-op.
func (l ProfileList) RemoveAt(i int) ProfileList {
	if i < 0 || i >= len(l) {
		return l
	}
	out := make(ProfileList, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// Update replaces the url at i; out of range is a no-op.
func (l ProfileList) Update(i int, url string) ProfileList {
	if i < 0 || i >= len(l) {
		return l
	}
	out := make(ProfileList, len(l))
	copy(out, l)
	out[i] = url
	return out
}

// Clean returns the trimmed, non-empty entries in order
func (l ProfileList) Clean() []string {
	out := make([]string, 0, len(l))
	for _, url := range l {
		if url = strings.TrimSpace(url); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func (l ProfileList) validate(errs Errors, field string) {
	for i, url := range l {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		optionalURL(errs, field+"["+strconv.Itoa(i)+"]", url)
	}
}
