package currency

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Registry is the read-only set of configured currencies. Codes keep their
// configuration order so provisioning and listings are deterministic.
type Registry struct {
	codes []string
	defs  map[string]Definition
}

// NewRegistry builds a registry from definitions, rejecting duplicates and
// definitions without a code.
func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("at least one currency must be configured")
	}

	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Code == "" {
			return nil, errors.New("currency definition is missing a code")
		}
		if _, dup := r.defs[def.Code]; dup {
			return nil, fmt.Errorf("duplicate currency code: %s", def.Code)
		}
		if def.StartingBalance < 0 {
			return nil, fmt.Errorf("currency %s has a negative starting balance", def.Code)
		}
		if def.Name == "" {
			def.Name = def.Code
		}
		r.codes = append(r.codes, def.Code)
		r.defs[def.Code] = def
	}

	return r, nil
}

// LoadRegistry reads currency definitions from a YAML file under the
// top-level "currencies" key.
func LoadRegistry(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read currencies file %s: %w", path, err)
	}

	var defs []Definition
	if err := v.UnmarshalKey("currencies", &defs); err != nil {
		return nil, fmt.Errorf("failed to parse currencies file %s: %w", path, err)
	}

	return NewRegistry(defs)
}

// List returns the configured currency codes in configuration order.
func (r *Registry) List() []string {
	codes := make([]string, len(r.codes))
	copy(codes, r.codes)
	return codes
}

// Get returns the definition for a code.
// Returns ErrUnknownCurrency if the code is not configured.
func (r *Registry) Get(code string) (Definition, error) {
	def, ok := r.defs[code]
	if !ok {
		return Definition{}, ErrUnknownCurrency{Code: code}
	}
	return def, nil
}

// Known reports whether the code is configured.
func (r *Registry) Known(code string) bool {
	_, ok := r.defs[code]
	return ok
}
