package game

import (
	"math"

	"napoleon/hexgrid"
)

// MoveRange is how far a unit may go in one order.
func (c Config) MoveRange(u Unit, forceMarch bool) int {
	r := c.Move.Infantry
	if u.Kind == Cavalry {
		r = c.Move.Cavalry
	}
	if forceMarch {
		r = max(r, c.Move.ForceMarch)
	}
	return r
}

// StepCost prices a single step on the given state's map. Road links cost
// RoadCost regardless of terrain; height changes and river sides add on top.
func (c Config) StepCost(s *State) hexgrid.CostFunc {
	return func(from, to hexgrid.Coord) float64 {
		src, dst := s.HexAt(from), s.HexAt(to)
		if src == nil || dst == nil {
			return math.Inf(1)
		}
		cost, ok := c.Terrain[dst.Terrain]
		if !ok {
			return math.Inf(1)
		}
		if s.roadLinked(from, to) {
			cost = c.Move.RoadCost
		}
		cost += c.Move.ElevationPenalty * math.Abs(float64(dst.Height-src.Height))
		if dir, ok := hexgrid.Direction(from, to); ok {
			if src.Rivers[dir] || dst.Rivers[hexgrid.Opposite(dir)] {
				cost += c.Move.RiverPenalty
			}
		}
		return cost
	}
}

// SightBlock reports hexes that stop line of sight for a viewer standing at from.
func (c Config) SightBlock(s *State, from hexgrid.Coord) hexgrid.BlockFunc {
	blocking := make(map[Terrain]bool, len(c.Vision.Blocking))
	for _, t := range c.Vision.Blocking {
		blocking[t] = true
	}
	viewer := 0
	if h := s.HexAt(from); h != nil {
		viewer = h.Height
	}
	height := func(at hexgrid.Coord) int {
		if h := s.HexAt(at); h != nil {
			return h.Height
		}
		return 0
	}
	return hexgrid.AnyBlock(
		func(at hexgrid.Coord) bool {
			h := s.HexAt(at)
			return h != nil && blocking[h.Terrain]
		},
		hexgrid.ElevationCeiling(height, viewer),
	)
}

// SightRange is how many hexes a unit sees this round.
func (c Config) SightRange(u Unit) int {
	r := c.Vision.Base
	if u.IsDetachment() {
		r = max(r, c.Scout.LOS)
	}
	return max(r, u.LOSBoost)
}

// Visible returns the hexes a team can see from all of its units.
func Visible(s *State, team Team) map[hexgrid.Coord]bool {
	cfg := s.Config
	seen := map[hexgrid.Coord]bool{}
	for _, u := range s.UnitsOf(team) {
		reach := hexgrid.Reachable(s.Grid(), u.Position, float64(cfg.SightRange(u)), hexgrid.UniformCost, cfg.SightBlock(s, u.Position))
		for _, r := range reach {
			if r.Visible {
				seen[r.Coord] = true
			}
		}
	}
	return seen
}

// PlanPath finds the cheapest route for a unit within its move range.
func PlanPath(s *State, u Unit, dest hexgrid.Coord, forceMarch bool) ([]hexgrid.Coord, float64) {
	cfg := s.Config
	return hexgrid.ShortestPath(s.Grid(), u.Position, dest, float64(cfg.MoveRange(u, forceMarch)), cfg.StepCost(s),
		hexgrid.WithMinStepCost(cfg.Move.RoadCost))
}

func (s *State) roadLinked(from, to hexgrid.Coord) bool {
	for _, c := range s.Roads[from] {
		if c == to {
			return true
		}
	}
	return false
}
