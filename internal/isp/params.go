package isp

import (
	"fmt"

	"github.com/banshee-data/burstlab/internal/raw"
)

// Params is the named-parameter bag passed to a step implementation. An
// absent key means "use the step's default". Steps validate their own keys
// with Allow before reading them.
type Params map[string]any

// Overrides maps a step identifier to the parameter bag applied to that
// step only. Steps without an entry run with defaults.
type Overrides map[Step]Params

// Get returns the bag for a step, never nil.
func (o Overrides) Get(step Step) Params {
	if o == nil {
		return Params{}
	}
	if p, ok := o[step]; ok && p != nil {
		return p
	}
	return Params{}
}

// Allow rejects keys outside the step's recognised set, so a typoed
// override fails loudly instead of silently running with defaults.
func (p Params) Allow(step Step, keys ...string) error {
	for k := range p {
		ok := false
		for _, allowed := range keys {
			if k == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("step %q: unrecognised parameter %q", step, k)
		}
	}
	return nil
}

// Bool reads a boolean parameter, returning def when absent.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, fmt.Errorf("parameter %q: expected bool, got %T", key, v)
	}
	return b, nil
}

// String reads a string parameter, returning def when absent.
func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("parameter %q: expected string, got %T", key, v)
	}
	return s, nil
}

// ShadingMaps reads a per-frame shading map list parameter.
func (p Params) ShadingMaps(key string) ([]*raw.ShadingMap, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	maps, ok := v.([]*raw.ShadingMap)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected []*raw.ShadingMap, got %T", key, v)
	}
	return maps, nil
}
