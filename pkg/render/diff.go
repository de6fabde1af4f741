package render

// Changes are the keys of one reconciliation, in next-frame order for Enter
// and Update and in previous-frame order for Exit. The sets are disjoint.
type Changes struct {
	Enter  []string
	Update []string
	Exit   []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Enter) == 0 && len(c.Update) == 0 && len(c.Exit) == 0
}

// Diff compares two keyed shape sets. A key present in both lands in Update
// only when its kind or attributes differ. Duplicate keys in next keep their
// first occurrence.
func Diff(prev, next []Shape) Changes {
	old := make(map[string]Shape, len(prev))
	for _, s := range prev {
		if _, dup := old[s.Key]; !dup {
			old[s.Key] = s
		}
	}
	var c Changes
	seen := make(map[string]bool, len(next))
	for _, s := range next {
		if seen[s.Key] {
			continue
		}
		seen[s.Key] = true
		o, ok := old[s.Key]
		switch {
		case !ok:
			c.Enter = append(c.Enter, s.Key)
		case o.Kind != s.Kind || o.Attrs != s.Attrs || o.Class != s.Class:
			c.Update = append(c.Update, s.Key)
		}
	}
	exited := make(map[string]bool)
	for _, s := range prev {
		if !seen[s.Key] && !exited[s.Key] {
			exited[s.Key] = true
			c.Exit = append(c.Exit, s.Key)
		}
	}
	return c
}
