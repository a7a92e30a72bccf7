// Package preset reads and writes named filter presets stored as YAML.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stwalsh4118/evpulse/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPreset is returned when a preset decodes but cannot be applied.
var ErrInvalidPreset = errors.New("invalid preset")

// Preset is a saved filter selection, optionally with a table sort order.
//
//	name: long-range
//	filters:
//	  makes: [Tesla, Rivian]
//	  rangeFilter: {min: 250, max: 400}
//	sort:
//	  modelYear: asc
//	  electricRange: desc
type Preset struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Filters     models.FilterUpdate `yaml:"filters"`
	Sort        *models.SortSpec    `yaml:"sort,omitempty"`
}

// Load reads a preset file.
func Load(path string) (*Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Parse(b)
}

// Parse decodes a preset. Unknown keys are rejected so typos do not
// silently widen the selection.
func Parse(data []byte) (*Preset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidPreset)
		}
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the filter ranges, EV types and sort directions.
func (p *Preset) Validate() error {
	var problems []string
	for _, issue := range p.Filters.Validate() {
		problems = append(problems, issue.Field+": "+issue.Message)
	}
	if p.Sort != nil {
		if !p.Sort.ModelYear.Valid() {
			problems = append(problems, fmt.Sprintf("sort.modelYear: %q is not asc or desc", p.Sort.ModelYear))
		}
		if !p.Sort.ElectricRange.Valid() {
			problems = append(problems, fmt.Sprintf("sort.electricRange: %q is not asc or desc", p.Sort.ElectricRange))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPreset, strings.Join(problems, "; "))
	}
	return nil
}

// Save writes p to path as YAML.
func Save(p *Preset, path string) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// FromSpec captures the full specification as a preset.
func FromSpec(name string, spec models.FilterSpec, sort models.SortSpec) *Preset {
	return &Preset{
		Name:    name,
		Filters: models.UpdateFromSpec(spec),
		Sort:    &sort,
	}
}
