package seating

// ConflictGroup is a composite table that physically occupies its member tables.
type ConflictGroup struct {
	Composite string
	Members   []string
}

// ConflictGroups resolves which tables cannot be booked at the same time.
// The relation is symmetric: the composite conflicts with every member and every
// member with the composite. Members do not conflict with each other.
// A nil *ConflictGroups only reports a table as conflicting with itself.
type ConflictGroups struct {
	peers      map[string]map[string]struct{}
	composites map[string]struct{}
}

func NewConflictGroups(groups ...ConflictGroup) *ConflictGroups {
	g := &ConflictGroups{
		peers:      make(map[string]map[string]struct{}),
		composites: make(map[string]struct{}),
	}
	for _, group := range groups {
		if group.Composite == "" {
			continue
		}
		g.composites[group.Composite] = struct{}{}
		for _, member := range group.Members {
			if member == "" || member == group.Composite {
				continue
			}
			g.link(group.Composite, member)
			g.link(member, group.Composite)
		}
	}
	return g
}

func (g *ConflictGroups) link(a, b string) {
	set, ok := g.peers[a]
	if !ok {
		set = make(map[string]struct{})
		g.peers[a] = set
	}
	set[b] = struct{}{}
}

// Conflicts reports whether a booking on table a blocks table b.
func (g *ConflictGroups) Conflicts(a, b string) bool {
	if a == b {
		return true
	}
	if g == nil {
		return false
	}
	_, ok := g.peers[a][b]
	return ok
}

// IsComposite reports whether id is declared as a composite table.
// Composite tables do not count toward an area's table limit.
func (g *ConflictGroups) IsComposite(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.composites[id]
	return ok
}
