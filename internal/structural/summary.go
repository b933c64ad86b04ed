package structural

// Summary provides an overview of a change tree for renderers and the
// report store.
type Summary struct {
	TotalChanges    int            `json:"totalChanges"`
	BreakingChanges int            `json:"breakingChanges"`
	ByType          map[string]int `json:"byType"`
	ByKind          map[string]int `json:"byKind"`
	ByImpact        map[string]int `json:"byImpact,omitempty"`
}

// Summarize counts every change in the tree, nested ones included.
func Summarize(changes []Change) *Summary {
	s := &Summary{
		ByType:   make(map[string]int),
		ByKind:   make(map[string]int),
		ByImpact: make(map[string]int),
	}
	tally(changes, s)
	return s
}

func tally(changes []Change, s *Summary) {
	for i := range changes {
		c := &changes[i]
		s.TotalChanges++
		s.ByType[string(c.Type)]++
		s.ByKind[string(c.Kind)]++
		if c.Impact != "" {
			s.ByImpact[string(c.Impact)]++
		}
		if c.Impact == BreakingPublicAPI || c.Impact == BreakingInternalAPI {
			s.BreakingChanges++
		}
		tally(c.Children, s)
	}
}

// HasBreakingChanges reports whether any change carries a breaking impact.
func (s *Summary) HasBreakingChanges() bool {
	return s != nil && s.BreakingChanges > 0
}

// Walk visits every change in the tree in depth-first order. The visitor
// receives a pointer so annotation passes can write in place.
func Walk(changes []Change, visit func(*Change)) {
	for i := range changes {
		visit(&changes[i])
		Walk(changes[i].Children, visit)
	}
}
