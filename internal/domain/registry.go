package domain

import (
	"regexp"
	"sync"
)

// RegistryRule is an ingredient-specific entry of the local
// unit-conversion registry.
type RegistryRule struct {
	Pattern *regexp.Regexp
	Units   map[string]float64
}

// UnitRegistry is the local unit-conversion registry: ingredient rules
// plus generic per-unit gram defaults. Loaded once at startup and
// treated as immutable.
type UnitRegistry struct {
	Defaults map[string]float64
	Items    []RegistryRule
}

var (
	defaultUnitRegistryOnce sync.Once
	defaultUnitRegistry     UnitRegistry
)

// DefaultUnitRegistry returns a registry carrying only the generic
// volumetric constants, used when no registry file is configured.
func DefaultUnitRegistry() UnitRegistry {
	defaultUnitRegistryOnce.Do(func() {
		defaultUnitRegistry = UnitRegistry{
			Defaults: map[string]float64{"cup": 240.0, "tbsp": 15.0, "tsp": 5.0},
		}
	})
	return defaultUnitRegistry
}
