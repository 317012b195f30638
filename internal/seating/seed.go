package seating

import (
	"fmt"
	"strings"

	"restaurant-seating-backend/config"
	"restaurant-seating-backend/internal/model"
)

// Layout is the set of areas and tables loaded by a reseed.
type Layout struct {
	Areas  []model.Area
	Tables []model.Table
}

func (l Layout) clone() Layout {
	return Layout{
		Areas:  append([]model.Area(nil), l.Areas...),
		Tables: append([]model.Table(nil), l.Tables...),
	}
}

type standardArea struct {
	id, name   string
	capacities []int
}

var standardAreas = []standardArea{
	{id: "TERRACE", name: "Terrace", capacities: []int{2, 2, 4, 4, 6, 6, 8, 8}},
	{id: "PATIO", name: "Patio", capacities: []int{2, 2, 4, 4, 6, 6, 8}},
	{id: "LOBBY", name: "Lobby", capacities: []int{2, 2, 4, 4, 6, 6}},
	{id: "BAR", name: "Bar", capacities: []int{2, 2, 2, 4, 4}},
}

// DefaultLayout returns the restaurant's canonical floor plan.
func DefaultLayout() Layout {
	var l Layout
	for _, a := range standardAreas {
		l.Areas = append(l.Areas, model.Area{ID: a.id, Name: a.name, MaxTables: len(a.capacities)})
		for i, capacity := range a.capacities {
			l.Tables = append(l.Tables, model.Table{
				ID:       fmt.Sprintf("%s-%d", a.id, i+1),
				AreaID:   a.id,
				Capacity: capacity,
				Type:     model.TableTypeStandard,
			})
		}
	}

	l.Areas = append(l.Areas, model.Area{ID: "VIP", Name: "Salones VIP", MaxTables: 3})
	l.Tables = append(l.Tables,
		model.Table{ID: "VIP-REDONDA", AreaID: "VIP", Capacity: 10, Type: model.TableTypeCircular},
		model.Table{ID: "VIP-A", AreaID: "VIP", Capacity: 4, Type: model.TableTypeVIPSquare},
		model.Table{ID: "VIP-B", AreaID: "VIP", Capacity: 4, Type: model.TableTypeVIPSquare},
		model.Table{ID: "VIP-AB", AreaID: "VIP", Capacity: 6, Type: model.TableTypeVIPSquare},
	)
	return l
}

// DefaultConflictGroups declares VIP-AB as the two VIP squares pushed together.
func DefaultConflictGroups() []ConflictGroup {
	return []ConflictGroup{{Composite: "VIP-AB", Members: []string{"VIP-A", "VIP-B"}}}
}

// LayoutFromConfig returns the configured layout and conflict groups. With no
// layout configured it falls back to the canonical one, and with no groups
// configured the canonical groups apply to the canonical layout only.
func LayoutFromConfig(cfg config.SeatingConfig) (Layout, []ConflictGroup, error) {
	groups := make([]ConflictGroup, 0, len(cfg.ConflictGroups))
	for _, g := range cfg.ConflictGroups {
		if g.Composite == "" || len(g.Members) == 0 {
			return Layout{}, nil, fmt.Errorf("conflict group %q: composite and members are required", g.Composite)
		}
		groups = append(groups, ConflictGroup{Composite: g.Composite, Members: append([]string(nil), g.Members...)})
	}

	if len(cfg.Layout) == 0 {
		if len(groups) == 0 {
			groups = DefaultConflictGroups()
		}
		l := DefaultLayout()
		if err := validateGroups(l, groups); err != nil {
			return Layout{}, nil, err
		}
		return l, groups, nil
	}

	var l Layout
	areaIDs := make(map[string]struct{}, len(cfg.Layout))
	tableIDs := make(map[string]struct{})
	for _, a := range cfg.Layout {
		if a.ID == "" {
			return Layout{}, nil, fmt.Errorf("layout: area id is required")
		}
		if _, dup := areaIDs[a.ID]; dup {
			return Layout{}, nil, fmt.Errorf("layout: duplicate area %s", a.ID)
		}
		areaIDs[a.ID] = struct{}{}

		name := a.Name
		if name == "" {
			name = a.ID
		}
		maxTables := a.MaxTables
		if maxTables <= 0 {
			maxTables = len(a.Tables)
		}
		l.Areas = append(l.Areas, model.Area{ID: a.ID, Name: name, MaxTables: maxTables})

		for i, t := range a.Tables {
			id := t.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", a.ID, i+1)
			}
			if _, dup := tableIDs[id]; dup {
				return Layout{}, nil, fmt.Errorf("layout: duplicate table %s", id)
			}
			tableIDs[id] = struct{}{}
			if t.Capacity <= 0 {
				return Layout{}, nil, fmt.Errorf("layout: table %s: capacity must be positive", id)
			}
			tableType, err := parseTableType(t.Type)
			if err != nil {
				return Layout{}, nil, fmt.Errorf("layout: table %s: %w", id, err)
			}
			l.Tables = append(l.Tables, model.Table{ID: id, AreaID: a.ID, Capacity: t.Capacity, Type: tableType})
		}
	}
	if err := validateGroups(l, groups); err != nil {
		return Layout{}, nil, err
	}
	return l, groups, nil
}

// validateGroups requires every table of a group to exist and to share the
// composite's area. Allocation locks per area, so a group spanning two areas
// could be double-booked.
func validateGroups(l Layout, groups []ConflictGroup) error {
	areaOf := make(map[string]string, len(l.Tables))
	for _, t := range l.Tables {
		areaOf[t.ID] = t.AreaID
	}
	for _, g := range groups {
		area, ok := areaOf[g.Composite]
		if !ok {
			return fmt.Errorf("conflict group %s: unknown table %s", g.Composite, g.Composite)
		}
		for _, m := range g.Members {
			memberArea, ok := areaOf[m]
			if !ok {
				return fmt.Errorf("conflict group %s: unknown table %s", g.Composite, m)
			}
			if memberArea != area {
				return fmt.Errorf("conflict group %s: member %s is in area %s, not %s", g.Composite, m, memberArea, area)
			}
		}
	}
	return nil
}

// parseTableType accepts any case and defaults to STANDARD.
func parseTableType(raw string) (model.TableType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.TableTypeStandard, nil
	}
	t := model.TableType(strings.ToUpper(raw))
	if !t.Valid() {
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("must be one of STANDARD, CIRCULAR, VIP_SQUARE, got %q", raw)}
	}
	return t, nil
}
