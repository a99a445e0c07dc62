package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"napoleon/hexgrid"
)

var (
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrNotYourTurn    = errors.New("unit does not belong to the current player")
	ErrAlreadyOrdered = errors.New("unit already has an order this turn")
	ErrInvalidOrder   = errors.New("invalid order")
)

type OrderKind string

const (
	KindMove    OrderKind = "move"
	KindAttack  OrderKind = "attack"
	KindScout   OrderKind = "scout"
	KindRest    OrderKind = "rest"
	KindFortify OrderKind = "fortify"
)

// Order is an instruction for one unit. Validate never changes the state;
// Apply is only called after Validate succeeds, on a state the caller owns.
type Order interface {
	Kind() OrderKind
	Validate(s *State, unitID string, cfg Config) error
	Apply(s *State, unitID string, cfg Config)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOrder, fmt.Sprintf(format, args...))
}

func lookup(s *State, unitID string) (*Unit, error) {
	u := s.Unit(unitID)
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	return u, nil
}

func mustLookup(s *State, unitID string) *Unit {
	u := s.Unit(unitID)
	if u == nil {
		panic(fmt.Sprintf("order applied to unknown unit %s", unitID))
	}
	return u
}

// MoveOrder sends a unit to Dest. Moving onto an enemy starts a combat with
// the first enemy listed there.
type MoveOrder struct {
	Dest       hexgrid.Coord `json:"dest"`
	ForceMarch bool          `json:"forceMarch,omitempty"`
}

func (MoveOrder) Kind() OrderKind { return KindMove }

func (o MoveOrder) Validate(s *State, unitID string, cfg Config) error {
	u, err := lookup(s, unitID)
	if err != nil {
		return err
	}
	if s.HexAt(o.Dest) == nil {
		return invalid("cannot move %s: destination %v is off the map", u.Name, o.Dest)
	}
	dist := hexgrid.Distance(u.Position, o.Dest)
	if limit := cfg.MoveRange(*u, o.ForceMarch); dist > limit {
		return invalid("cannot move %s: destination %v is %d hexes away, range is %d", u.Name, o.Dest, dist, limit)
	}
	return nil
}

func (o MoveOrder) Apply(s *State, unitID string, cfg Config) {
	u := mustLookup(s, unitID)
	s.setOrder(u.Team, unitID, o)
}

// AttackOrder engages an adjacent enemy.
type AttackOrder struct {
	TargetID string `json:"targetId"`
}

func (AttackOrder) Kind() OrderKind { return KindAttack }

func (o AttackOrder) Validate(s *State, unitID string, cfg Config) error {
	u, err := lookup(s, unitID)
	if err != nil {
		return err
	}
	target := s.Unit(o.TargetID)
	if target == nil {
		return invalid("cannot attack: no unit %s", o.TargetID)
	}
	if target.Team == u.Team {
		return invalid("cannot attack: %s is friendly", target.Name)
	}
	if target.Strength <= 0 {
		return invalid("cannot attack: %s has no strength left", target.Name)
	}
	dist := hexgrid.Distance(u.Position, target.Position)
	if dist < 1 || dist > cfg.Attack.Range {
		return invalid("cannot attack: %s is %d hexes away, range is %d", target.Name, dist, cfg.Attack.Range)
	}
	return nil
}

func (o AttackOrder) Apply(s *State, unitID string, cfg Config) {
	u := mustLookup(s, unitID)
	s.setOrder(u.Team, unitID, o)
}

// ScoutOrder splits off a mounted detachment from a division. The detachment
// is placed at once and rejoins its parent after a fixed number of turns.
type ScoutOrder struct{}

func (ScoutOrder) Kind() OrderKind { return KindScout }

// DetachmentID names the detachment a unit sends out on a given turn.
func DetachmentID(unitID string, turn int) string {
	return fmt.Sprintf("%s_scout_%d", unitID, turn)
}

func scoutAllotment(u Unit, cfg Config) int {
	share := int(math.Floor(float64(u.EffectiveStrength()) * cfg.Scout.StrengthFraction))
	return min(share, u.Horses)
}

func (o ScoutOrder) Validate(s *State, unitID string, cfg Config) error {
	u, err := lookup(s, unitID)
	if err != nil {
		return err
	}
	if u.IsDetachment() {
		return invalid("cannot scout: %s is itself a detachment", u.Name)
	}
	if u.Horses <= 0 {
		return invalid("cannot scout: %s has no horses", u.Name)
	}
	for _, other := range s.Units {
		if other.DivisionID == u.ID {
			return invalid("cannot scout: %s already has %s out", u.Name, other.Name)
		}
	}
	if scoutAllotment(*u, cfg) < 1 {
		return invalid("cannot scout: %s is too weak to spare a detachment", u.Name)
	}
	return nil
}

func (o ScoutOrder) Apply(s *State, unitID string, cfg Config) {
	u := mustLookup(s, unitID)
	allot := scoutAllotment(*u, cfg)

	det := Unit{
		ID:           DetachmentID(u.ID, s.Turn),
		Name:         u.Name + " Scouts",
		Team:         u.Team,
		Kind:         Cavalry,
		Position:     u.Position,
		Strength:     allot,
		FullStrength: allot,
		Skill:        u.Skill,
		Horses:       allot,
		DivisionID:   u.ID,
		ReturnTurn:   s.Turn + cfg.Scout.ReturnTurns,
	}
	u.DetachedStrength += allot
	u.Horses -= allot
	team := u.Team

	s.placeUnit(det)
	s.setOrder(team, unitID, o)
}

// RestOrder stands a unit down. Exhaustion clears at once; part of its strength
// is held back until the rest ends.
type RestOrder struct{}

func (RestOrder) Kind() OrderKind { return KindRest }

func (o RestOrder) Validate(s *State, unitID string, cfg Config) error {
	u, err := lookup(s, unitID)
	if err != nil {
		return err
	}
	if u.Rest.Active {
		return invalid("cannot rest: %s is already resting until turn %d", u.Name, u.Rest.Until)
	}
	return nil
}

func (o RestOrder) Apply(s *State, unitID string, cfg Config) {
	u := mustLookup(s, unitID)
	held := -int(float64(u.Strength) * cfg.Rest.Strength)
	u.Exhaustion = 0
	u.Strength -= held
	u.Rest = RestState{Active: true, Until: s.Turn + cfg.Rest.Duration, Strength: held}
	s.setOrder(u.Team, unitID, o)
}

// FortifyOrder digs a unit in. It has no combat effect yet.
type FortifyOrder struct{}

func (FortifyOrder) Kind() OrderKind { return KindFortify }

func (o FortifyOrder) Validate(s *State, unitID string, cfg Config) error {
	_, err := lookup(s, unitID)
	return err
}

func (o FortifyOrder) Apply(s *State, unitID string, cfg Config) {
	u := mustLookup(s, unitID)
	s.setOrder(u.Team, unitID, o)
}

func (o MoveOrder) MarshalJSON() ([]byte, error) {
	type plain MoveOrder
	return json.Marshal(struct {
		Kind OrderKind `json:"kind"`
		plain
	}{o.Kind(), plain(o)})
}

func (o AttackOrder) MarshalJSON() ([]byte, error) {
	type plain AttackOrder
	return json.Marshal(struct {
		Kind OrderKind `json:"kind"`
		plain
	}{o.Kind(), plain(o)})
}

func (o ScoutOrder) MarshalJSON() ([]byte, error)   { return marshalKind(o) }
func (o RestOrder) MarshalJSON() ([]byte, error)    { return marshalKind(o) }
func (o FortifyOrder) MarshalJSON() ([]byte, error) { return marshalKind(o) }

func marshalKind(o Order) ([]byte, error) {
	return json.Marshal(struct {
		Kind OrderKind `json:"kind"`
	}{o.Kind()})
}
