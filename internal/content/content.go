// Package content serves the static catalogue behind the public pages and the
// placeholder analytics datasets.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

//go:embed data/*.yaml
var embedded embed.FS

type Mentor struct {
	Name         string `yaml:"name" json:"name"`
	Title        string `yaml:"title" json:"title"`
	Organization string `yaml:"organization" json:"organization"`
	Bio          string `yaml:"bio" json:"bio"`
	ImageURL     string `yaml:"image_url" json:"image_url,omitempty"`
	LinkedIn     string `yaml:"linkedin" json:"linkedin,omitempty"`
}

type Testimonial struct {
	Name     string `yaml:"name" json:"name"`
	Cohort   string `yaml:"cohort" json:"cohort"`
	Role     string `yaml:"role" json:"role"`
	Quote    string `yaml:"quote" json:"quote"`
	ImageURL string `yaml:"image_url" json:"image_url,omitempty"`
}

type DataPoint struct {
	Label string  `yaml:"label" json:"label"`
	Value float64 `yaml:"value" json:"value"`
}

// Samples are hard-coded chart datasets, not derived from records
type Samples struct {
	Demographics        []DataPoint `yaml:"demographics" json:"demographics"`
	ReviewerConsistency []DataPoint `yaml:"reviewer_consistency" json:"reviewer_consistency"`
	TimeToReview        []DataPoint `yaml:"time_to_review" json:"time_to_review"`
}

type Catalogue struct {
	Mentors      []Mentor
	Testimonials []Testimonial
	Samples      Samples
}

// Load reads the catalogue from dir, or from the embedded copy when dir is empty.
// Files missing from dir fall back to the embedded ones.
func Load(dir string) (*Catalogue, error) {
	var override fs.FS
	if dir != "" {
		override = os.DirFS(dir)
	}

	c := &Catalogue{}
	files := []struct {
		name string
		dst  interface{}
	}{
		{"mentors.yaml", &c.Mentors},
		{"testimonials.yaml", &c.Testimonials},
		{"samples.yaml", &c.Samples},
	}
	for _, f := range files {
		raw, err := read(override, f.name)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
	}
	return c, nil
}

func read(override fs.FS, name string) ([]byte, error) {
	if override != nil {
		raw, err := fs.ReadFile(override, name)
		if err == nil {
			return raw, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	return embedded.ReadFile("data/" + name)
}
