package game

import (
	"fmt"

	"napoleon/hexgrid"
	"napoleon/utils"
)

// Notifications holds the human readable events of a round, per team.
type Notifications map[Team][]string

func NewNotifications() Notifications {
	return Notifications{Blue: []string{}, Red: []string{}}
}

func (n Notifications) Add(team Team, format string, args ...any) {
	n[team] = append(n[team], fmt.Sprintf(format, args...))
}

// Both sends the same message to each team.
func (n Notifications) Both(format string, args ...any) {
	for _, team := range Teams {
		n.Add(team, format, args...)
	}
}

func (n Notifications) Merge(other Notifications) {
	for _, team := range Teams {
		n[team] = append(n[team], other[team]...)
	}
}

func (n Notifications) Copy() Notifications {
	out := make(Notifications, len(n))
	for team, msgs := range n {
		out[team] = append([]string{}, msgs...)
	}
	return out
}

// State is the whole game at a point in time. Everything but Roads and Config
// changes during play.
type State struct {
	Turn          int                              `json:"turn"`
	CurrentPlayer Team                             `json:"currentPlayer"`
	Width         int                              `json:"width"`
	Height        int                              `json:"height"`
	Hexes         []Hex                            `json:"hexes"` // column-major, see hexgrid.Rect.Coords
	Units         []Unit                           `json:"units"`
	Roads         map[hexgrid.Coord][]hexgrid.Coord `json:"-"`
	Orders        map[Team]map[string]Order        `json:"orders"`
	Notifications Notifications                    `json:"notifications"`
	Config        Config                           `json:"-"`
}

// NewState lays out an all-plains grid with no units, ready for turn 1.
func NewState(width, height int, cfg Config) *State {
	grid := hexgrid.Rect{Width: width, Height: height}
	s := &State{
		Turn:          1,
		CurrentPlayer: Blue,
		Width:         width,
		Height:        height,
		Roads:         map[hexgrid.Coord][]hexgrid.Coord{},
		Notifications: NewNotifications(),
		Config:        cfg,
	}
	s.ResetOrders()
	for _, c := range grid.Coords() {
		s.Hexes = append(s.Hexes, Hex{Coord: c, Terrain: Plains, Units: []string{}})
	}
	return s
}

func (s *State) Grid() hexgrid.Rect {
	return hexgrid.Rect{Width: s.Width, Height: s.Height}
}

// Copy returns a deep copy. Roads and Config are shared; neither changes after load.
func (s *State) Copy() *State {
	hexes := make([]Hex, len(s.Hexes))
	for i, h := range s.Hexes {
		h.Units = append([]string{}, h.Units...)
		hexes[i] = h
	}

	units := make([]Unit, len(s.Units))
	copy(units, s.Units)

	orders := make(map[Team]map[string]Order, len(s.Orders))
	for team, byUnit := range s.Orders {
		m := make(map[string]Order, len(byUnit))
		for id, o := range byUnit {
			m[id] = o
		}
		orders[team] = m
	}

	return &State{
		Turn:          s.Turn,
		CurrentPlayer: s.CurrentPlayer,
		Width:         s.Width,
		Height:        s.Height,
		Hexes:         hexes,
		Units:         units,
		Roads:         s.Roads,
		Orders:        orders,
		Notifications: s.Notifications.Copy(),
		Config:        s.Config,
	}
}

// Snapshot is Copy with Roads and Config copied as well, for handing the
// state to callers outside the engine.
func (s *State) Snapshot() *State {
	out := s.Copy()
	out.Config = s.Config.Copy()
	if s.Roads != nil {
		out.Roads = make(map[hexgrid.Coord][]hexgrid.Coord, len(s.Roads))
		for from, to := range s.Roads {
			out.Roads[from] = append([]hexgrid.Coord{}, to...)
		}
	}
	return out
}

func (s *State) ResetOrders() {
	s.Orders = map[Team]map[string]Order{Blue: {}, Red: {}}
}

// HexAt returns the hex at c, or nil off the map.
func (s *State) HexAt(c hexgrid.Coord) *Hex {
	grid := s.Grid()
	if !grid.Contains(c) {
		return nil
	}
	return &s.Hexes[grid.Index(c)]
}

// Unit returns the unit with the given id, or nil.
func (s *State) Unit(id string) *Unit {
	for i := range s.Units {
		if s.Units[i].ID == id {
			return &s.Units[i]
		}
	}
	return nil
}

// OrderFor returns the stored order of a unit. ok is true for a selected
// unit with no order yet, in which case the order is nil.
func (s *State) OrderFor(id string) (order Order, ok bool) {
	u := s.Unit(id)
	if u == nil {
		return nil, false
	}
	order, ok = s.Orders[u.Team][id]
	return order, ok
}

func (s *State) setOrder(team Team, id string, o Order) {
	if s.Orders == nil {
		s.ResetOrders()
	}
	if s.Orders[team] == nil {
		s.Orders[team] = map[string]Order{}
	}
	s.Orders[team][id] = o
}

// UnitsOf lists a team's units in collection order.
func (s *State) UnitsOf(team Team) []Unit {
	var out []Unit
	for _, u := range s.Units {
		if u.Team == team {
			out = append(out, u)
		}
	}
	return out
}

// Occupied reports whether any unit stands at c.
func (s *State) Occupied(c hexgrid.Coord) bool {
	h := s.HexAt(c)
	return h != nil && len(h.Units) > 0
}

// FirstEnemy returns the first unit in the hex at c that is not on team.
func (s *State) FirstEnemy(c hexgrid.Coord, team Team) *Unit {
	h := s.HexAt(c)
	if h == nil {
		return nil
	}
	for _, id := range h.Units {
		if u := s.Unit(id); u != nil && u.Team != team {
			return u
		}
	}
	return nil
}

// placeUnit adds a unit to the collection and to its hex together.
func (s *State) placeUnit(u Unit) {
	h := s.HexAt(u.Position)
	if h == nil {
		panic(fmt.Sprintf("unit %s placed off the map at %v", u.ID, u.Position))
	}
	s.Units = append(s.Units, u)
	h.Units = append(h.Units, u.ID)
}

// relocate moves a unit, keeping its position and hex membership in step.
func (s *State) relocate(id string, to hexgrid.Coord) {
	u := s.Unit(id)
	if u == nil {
		panic(fmt.Sprintf("relocate: unknown unit %s", id))
	}
	dest := s.HexAt(to)
	if dest == nil {
		panic(fmt.Sprintf("relocate: %s sent off the map to %v", id, to))
	}
	if from := s.HexAt(u.Position); from != nil {
		from.Units = utils.Remove(from.Units, id)
	}
	dest.Units = append(dest.Units, id)
	u.Position = to
}

// removeUnit drops a unit from the collection and from its hex.
func (s *State) removeUnit(id string) {
	idx := -1
	for i := range s.Units {
		if s.Units[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if h := s.HexAt(s.Units[idx].Position); h != nil {
		h.Units = utils.Remove(h.Units, id)
	}
	s.Units = append(s.Units[:idx], s.Units[idx+1:]...)
}

// RebuildHexes derives every hex's unit list from unit positions, in unit
// collection order.
func (s *State) RebuildHexes() {
	for i := range s.Hexes {
		s.Hexes[i].Units = []string{}
	}
	for _, u := range s.Units {
		h := s.HexAt(u.Position)
		if h == nil {
			panic(fmt.Sprintf("unit %s stands off the map at %v", u.ID, u.Position))
		}
		h.Units = append(h.Units, u.ID)
	}
}

// CheckConsistency verifies that each unit is listed by exactly the hex at its
// position and that hexes list no unknown units.
func (s *State) CheckConsistency() error {
	seen := make(map[string]hexgrid.Coord, len(s.Units))
	for _, h := range s.Hexes {
		for _, id := range h.Units {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("unit %s listed by both %v and %v", id, prev, h.Coord)
			}
			seen[id] = h.Coord
		}
	}
	for _, u := range s.Units {
		at, ok := seen[u.ID]
		if !ok {
			return fmt.Errorf("unit %s at %v is not listed by any hex", u.ID, u.Position)
		}
		if at != u.Position {
			return fmt.Errorf("unit %s is at %v but listed by %v", u.ID, u.Position, at)
		}
		delete(seen, u.ID)
	}
	for id, at := range seen {
		return fmt.Errorf("hex %v lists unknown unit %s", at, id)
	}
	return nil
}
