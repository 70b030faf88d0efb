package tafl

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/mcoot/taflgame/internal/model"
)

//go:embed variants.yaml
var variantFiles embed.FS

// ErrUnknownVariant is returned when a variant name is not in the catalogue
var ErrUnknownVariant = errors.New("unknown variant")

// Variant describes a board size and its opening position
type Variant struct {
	Name   string     `yaml:"-"`
	Size   int        `yaml:"size"`
	First  model.Side `yaml:"first"`
	Layout []string   `yaml:"layout"`
}

type catalogue struct {
	Variants map[string]Variant `yaml:"variants"`
}

// Opening returns the variant's starting snapshot
func (v Variant) Opening() model.Snapshot {
	board := make([]string, len(v.Layout))
	copy(board, v.Layout)
	return model.Snapshot{Board: board, SideToMove: v.First}
}

func (v Variant) validate() error {
	if v.Size < 3 || v.Size%2 == 0 {
		return fmt.Errorf("variant %s: size must be odd and at least 3, got %d", v.Name, v.Size)
	}
	if !v.First.IsValid() {
		return fmt.Errorf("variant %s: invalid first side %q", v.Name, v.First)
	}
	if len(v.Layout) != v.Size {
		return fmt.Errorf("variant %s: layout has %d rows, want %d", v.Name, len(v.Layout), v.Size)
	}
	kings := 0
	for i, row := range v.Layout {
		if len(row) != v.Size {
			return fmt.Errorf("variant %s: row %d has %d squares, want %d", v.Name, i, len(row), v.Size)
		}
		for j := 0; j < len(row); j++ {
			p := model.Piece(row[j])
			if !p.IsValid() {
				return fmt.Errorf("variant %s: invalid symbol %q at %d,%d", v.Name, row[j], i, j)
			}
			if p == model.PieceKing {
				kings++
			}
		}
	}
	if kings != 1 {
		return fmt.Errorf("variant %s: layout must contain exactly one king, found %d", v.Name, kings)
	}
	return nil
}

// LoadVariants parses the embedded variant catalogue
func LoadVariants() (map[string]Variant, error) {
	raw, err := fs.ReadFile(variantFiles, "variants.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded variants: %w", err)
	}

	var cat catalogue
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}

	out := make(map[string]Variant, len(cat.Variants))
	for name, v := range cat.Variants {
		v.Name = name
		if err := v.validate(); err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// LookupVariant returns the named variant from the embedded catalogue
func LookupVariant(name string) (Variant, error) {
	variants, err := LoadVariants()
	if err != nil {
		return Variant{}, err
	}
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownVariant, name, strings.Join(variantNames(variants), ", "))
	}
	return v, nil
}

func variantNames(variants map[string]Variant) []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
