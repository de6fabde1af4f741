package render

import (
	"slices"
	"testing"
)

func shape(key string, x float64) Shape {
	return Shape{Key: key, Kind: KindRect, Attrs: Attrs{X: x, Opacity: 1}}
}

func TestDiff(t *testing.T) {
	prev := []Shape{shape("a", 1), shape("b", 2), shape("c", 3)}
	next := []Shape{shape("b", 2), shape("c", 30), shape("d", 4)}
	c := Diff(prev, next)

	if !slices.Equal(c.Enter, []string{"d"}) {
		t.Errorf("Enter = %v", c.Enter)
	}
	if !slices.Equal(c.Update, []string{"c"}) {
		t.Errorf("Update = %v", c.Update)
	}
	if !slices.Equal(c.Exit, []string{"a"}) {
		t.Errorf("Exit = %v", c.Exit)
	}
}

func TestDiffDisjoint(t *testing.T) {
	prev := []Shape{shape("a", 1), shape("b", 1), shape("a", 5)}
	next := []Shape{shape("a", 2), shape("c", 1), shape("c", 2)}
	c := Diff(prev, next)
	seen := map[string]int{}
	for _, set := range [][]string{c.Enter, c.Update, c.Exit} {
		for _, k := range set {
			seen[k]++
		}
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %s appears in %d sets", k, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 keys across sets, got %v", seen)
	}
}

func TestDiffEmpty(t *testing.T) {
	if c := Diff(nil, nil); !c.Empty() {
		t.Errorf("Diff(nil, nil) = %+v", c)
	}
	same := []Shape{shape("a", 1)}
	if c := Diff(same, same); !c.Empty() {
		t.Errorf("identical frames should produce no changes: %+v", c)
	}
}
