package interactivity

import (
	"slices"

	"github.com/matzehuels/chartpack/pkg/dataview"
)

// Selection is an ordered set of selected identities. The zero value and a
// nil *Selection are both empty.
type Selection struct {
	ids []dataview.Identity
}

// NewSelection returns a selection holding ids (duplicates dropped).
func NewSelection(ids ...dataview.Identity) *Selection {
	s := &Selection{}
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id dataview.Identity) bool {
	return s != nil && slices.Contains(s.ids, id)
}

// Len returns the number of selected identities.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return s.Len() == 0 }

// IDs returns a copy of the selected identities in selection order.
func (s *Selection) IDs() []dataview.Identity {
	if s == nil {
		return nil
	}
	return slices.Clone(s.ids)
}

// Toggle applies a click on id. With multi the identity's membership is
// flipped. Without it the selection becomes {id}, unless id was already the
// only selected identity, in which case the selection is cleared.
func (s *Selection) Toggle(id dataview.Identity, multi bool) {
	if multi {
		if i := slices.Index(s.ids, id); i >= 0 {
			s.ids = slices.Delete(s.ids, i, i+1)
		} else {
			s.ids = append(s.ids, id)
		}
		return
	}
	if len(s.ids) == 1 && s.ids[0] == id {
		s.ids = nil
		return
	}
	s.ids = []dataview.Identity{id}
}

// Set replaces the selection.
func (s *Selection) Set(ids ...dataview.Identity) {
	*s = *NewSelection(ids...)
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = nil }
