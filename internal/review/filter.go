// Package review holds the admin console's review logic: filtering, navigation,
// keyboard shortcuts, batch comparison and CSV export over application lists.
package review

import (
	"fmt"
	"strings"

	"pareto_backend/internal/models"
)

// Facet narrows the list to one status or to flagged applications
type Facet string

const (
	FacetAll      Facet = "all"
	FacetPending  Facet = "pending"
	FacetApproved Facet = "approved"
	FacetRejected Facet = "rejected"
	FacetFlagged  Facet = "flagged"
)

var Facets = []Facet{FacetAll, FacetPending, FacetApproved, FacetRejected, FacetFlagged}

// ParseFacet accepts the facet names case-insensitively; empty means all.
func ParseFacet(s string) (Facet, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FacetAll, nil
	}
	for _, f := range Facets {
		if Facet(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown facet %q", s)
}

// Filter - search text AND facet
type Filter struct {
	Search string
	Facet  Facet
}

// Matches reports whether app is visible under f. The search is a case-insensitive
// substring match over name, email, school and major.
func (f Filter) Matches(app *models.Application) bool {
	return f.matchesFacet(app) && f.matchesSearch(app)
}

func (f Filter) matchesFacet(app *models.Application) bool {
	switch f.Facet {
	case "", FacetAll:
		return true
	case FacetFlagged:
		return app.Flagged
	default:
		return string(app.Status) == string(f.Facet)
	}
}

func (f Filter) matchesSearch(app *models.Application) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	fields := []string{
		app.FullName(),
		app.Email,
		app.School(),
		app.Major,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply returns the matching applications in their original order.
func Apply(apps []models.Application, f Filter) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for i := range apps {
		if f.Matches(&apps[i]) {
			out = append(out, apps[i])
		}
	}
	return out
}

// MaxCompare - how many applications fit the side-by-side view
const MaxCompare = 4

// Compare takes the first min(n, MaxCompare) applications; n <= 0 means MaxCompare.
func Compare(apps []models.Application, n int) []models.Application {
	if n <= 0 || n > MaxCompare {
		n = MaxCompare
	}
	if n > len(apps) {
		n = len(apps)
	}
	out := make([]models.Application, n)
	copy(out, apps[:n])
	return out
}
