package isp

import (
	"testing"

	"github.com/banshee-data/burstlab/internal/raw"
)

func TestParamsAllow(t *testing.T) {
	t.Parallel()

	p := Params{"inplace": true}
	if err := p.Allow("some_step", "inplace", "maps"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	p["inplaec"] = true
	if err := p.Allow("some_step", "inplace", "maps"); err == nil {
		t.Error("expected error for typoed parameter")
	}
}

func TestParamsBool(t *testing.T) {
	t.Parallel()

	p := Params{"inplace": true, "bad": 3}
	if v, err := p.Bool("inplace", false); err != nil || !v {
		t.Errorf("Bool(inplace) = %v, %v", v, err)
	}
	if v, err := p.Bool("absent", true); err != nil || !v {
		t.Errorf("Bool(absent) should return default, got %v, %v", v, err)
	}
	if _, err := p.Bool("bad", false); err == nil {
		t.Error("expected type error")
	}
}

func TestParamsString(t *testing.T) {
	t.Parallel()

	p := Params{"native_cfa": "BGGR", "bad": 7}
	if v, err := p.String("native_cfa", "RGGB"); err != nil || v != "BGGR" {
		t.Errorf("String(native_cfa) = %q, %v", v, err)
	}
	if v, err := p.String("absent", "RGGB"); err != nil || v != "RGGB" {
		t.Errorf("String(absent) should return default, got %q, %v", v, err)
	}
	if _, err := p.String("bad", ""); err == nil {
		t.Error("expected type error")
	}
}

func TestParamsShadingMaps(t *testing.T) {
	t.Parallel()

	maps := []*raw.ShadingMap{raw.NewShadingMap(1, 1)}
	p := Params{"maps": maps}
	got, err := p.ShadingMaps("maps")
	if err != nil || len(got) != 1 {
		t.Errorf("ShadingMaps = %v, %v", got, err)
	}
	if got, err := p.ShadingMaps("absent"); err != nil || got != nil {
		t.Errorf("absent key should return nil, got %v, %v", got, err)
	}
	p["maps"] = "wrong"
	if _, err := p.ShadingMaps("maps"); err == nil {
		t.Error("expected type error")
	}
}

func TestOverridesGet(t *testing.T) {
	t.Parallel()

	var o Overrides
	if p := o.Get("any"); p == nil {
		t.Error("nil overrides should yield an empty bag")
	}
	o = Overrides{"a": Params{"x": 1}}
	if p := o.Get("a"); p["x"] != 1 {
		t.Error("override bag not returned")
	}
	if p := o.Get("b"); len(p) != 0 {
		t.Error("missing step should yield an empty bag")
	}
}
