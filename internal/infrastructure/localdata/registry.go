package localdata

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/renaltrack/backend/internal/domain"
)

// registryFile is the on-disk shape of the unit-conversion registry.
// A default value is either a bare gram weight or a map of density
// variants, in which case "water_like" (or the first variant) is used.
type registryFile struct {
	Defaults map[string]json.RawMessage `json:"defaults"`
	Items    []registryItem             `json:"items"`
}

type registryItem struct {
	Pattern string             `json:"pattern"`
	Units   map[string]float64 `json:"units"`
}

// LoadUnitRegistry reads the unit-conversion registry from path. A
// missing file yields the built-in generic defaults rather than an
// error: the registry is best-effort fallback data.
func LoadUnitRegistry(path string) (domain.UnitRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultUnitRegistry(), nil
		}
		return domain.UnitRegistry{}, fmt.Errorf("read unit registry: %w", err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.UnitRegistry{}, fmt.Errorf("parse unit registry: %w", err)
	}

	reg := domain.UnitRegistry{
		Defaults: make(map[string]float64, len(file.Defaults)),
	}

	for unit, raw := range file.Defaults {
		if g, ok := decodeDefault(raw); ok {
			reg.Defaults[strings.ToLower(unit)] = g
		}
	}

	for _, item := range file.Items {
		if item.Pattern == "" || len(item.Units) == 0 {
			continue
		}
		re, err := regexp.Compile(item.Pattern)
		if err != nil {
			return domain.UnitRegistry{}, fmt.Errorf("bad registry pattern %q: %w", item.Pattern, err)
		}
		units := make(map[string]float64, len(item.Units))
		for u, g := range item.Units {
			units[strings.ToLower(u)] = g
		}
		reg.Items = append(reg.Items, domain.RegistryRule{Pattern: re, Units: units})
	}

	// Keep the generic volumetric constants available even when the
	// file does not restate them.
	for unit, g := range domain.DefaultUnitRegistry().Defaults {
		if _, ok := reg.Defaults[unit]; !ok {
			reg.Defaults[unit] = g
		}
	}

	return reg, nil
}

func decodeDefault(raw json.RawMessage) (float64, bool) {
	var g float64
	if err := json.Unmarshal(raw, &g); err == nil {
		return g, true
	}
	var variants map[string]float64
	if err := json.Unmarshal(raw, &variants); err == nil {
		if g, ok := variants["water_like"]; ok {
			return g, true
		}
		for _, g := range variants {
			return g, true
		}
	}
	return 0, false
}
