package color

import "testing"

func TestResolverStable(t *testing.T) {
	r := NewResolver(nil)
	a := r.Color("a", "")
	b := r.Color("b", "")
	if a == b {
		t.Fatalf("distinct keys got same color %s", a)
	}
	if got := r.Color("a", ""); got != a {
		t.Errorf("Color(a) second call = %s, want %s", got, a)
	}
	if a != "#01B8AA" {
		t.Errorf("first color = %s, want first palette entry", a)
	}
}

func TestResolverOverride(t *testing.T) {
	r := NewResolver(Palette{"#000000"})
	if got := r.Color("x", "#FF0000"); got != "#ff0000" {
		t.Errorf("override = %s, want #ff0000", got)
	}
	if got := r.Color("x", ""); got != "#ff0000" {
		t.Errorf("override not remembered: %s", got)
	}
	if got := r.Color("y", "not-a-color"); got != "#000000" {
		t.Errorf("invalid override should fall back to palette, got %s", got)
	}
}

func TestPaletteWraps(t *testing.T) {
	p := Palette{"#111111", "#222222"}
	if p.At(2) != "#111111" {
		t.Errorf("At(2) = %s", p.At(2))
	}
	r := NewResolver(p)
	for _, k := range []string{"a", "b", "c"} {
		r.Color(k, "")
	}
	if got := r.Color("c", ""); got != "#111111" {
		t.Errorf("third key = %s, want wrap to first", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ABCDEF", "#abcdef", true},
		{"abcdef", "#abcdef", true},
		{"", "", false},
		{"#zzz", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBlendEndpoints(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("Blend t=0 = %s", got)
	}
	if got := Blend("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("Blend t=1 = %s", got)
	}
	if got := Blend("bad", "#ffffff", 0.5); got != "#ffffff" {
		t.Errorf("Blend with invalid start = %s", got)
	}
}
