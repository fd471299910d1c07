// Package theme provides the color palettes shared by the web page and the
// terminal UI, and the dark/light/system preference cycle.
package theme

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var themesYAML []byte

// Default palette ids for each resolved mode.
const (
	DefaultDark  = "github-dark"
	DefaultLight = "github-light"
)

// Palette is a named set of colors.
type Palette struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Dark    bool   `yaml:"dark" json:"dark"`
	Bg      string `yaml:"bg" json:"bg"`
	Fg      string `yaml:"fg" json:"fg"`
	Muted   string `yaml:"muted" json:"muted"`
	Accent  string `yaml:"accent" json:"accent"`
	Accent2 string `yaml:"accent2" json:"accent2"`
	Error   string `yaml:"error" json:"error"`
	Surface string `yaml:"surface" json:"surface"`
	Border  string `yaml:"border" json:"border"`
}

type paletteFile struct {
	Palettes []Palette `yaml:"palettes"`
}

var (
	loadOnce sync.Once
	palettes []Palette
	loadErr  error
)

// Parse decodes a palette file.
func Parse(data []byte) ([]Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing palettes: %w", err)
	}
	if len(f.Palettes) == 0 {
		return nil, fmt.Errorf("parsing palettes: no palettes defined")
	}
	seen := make(map[string]bool, len(f.Palettes))
	for _, p := range f.Palettes {
		if p.ID == "" {
			return nil, fmt.Errorf("parsing palettes: palette %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("parsing palettes: duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return f.Palettes, nil
}

// All returns the built-in palettes in file order.
func All() []Palette {
	loadOnce.Do(func() {
		palettes, loadErr = Parse(themesYAML)
	})
	if loadErr != nil {
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(loadErr)
	}
	return palettes
}

// ByID returns the palette with the given id, falling back to the first
// palette when the id is unknown.
func ByID(id string) Palette {
	all := All()
	for _, p := range all {
		if p.ID == id {
			return p
		}
	}
	return all[0]
}

// Lookup is like ByID but reports whether the id exists.
func Lookup(id string) (Palette, bool) {
	for _, p := range All() {
		if p.ID == id {
			return p, true
		}
	}
	return Palette{}, false
}

// ForMode returns the default palette for a resolved mode.
func ForMode(m Mode) Palette {
	if m == ModeLight {
		return ByID(DefaultLight)
	}
	return ByID(DefaultDark)
}
