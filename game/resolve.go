package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"napoleon/hexgrid"
	"napoleon/utils"
)

// PendingCombat is an engagement queued during movement.
type PendingCombat struct {
	AttackerID string
	DefenderID string
}

// Report counts what happened during one round.
type Report struct {
	Turn                int
	Moves               int
	ForcedMarches       int
	Blocked             int
	Combats             int
	Avoided             int
	Outcomes            map[Outcome]int
	Retreats            int
	HeldPosition        int
	Eliminated          []string
	DetachmentsReturned int
	RestsEnded          int
}

// Env is what the phases need besides the state.
type Env struct {
	Config Config
	Source Source
}

// Round is threaded through the phases. Each phase returns a new Round and
// leaves the one it was given untouched.
type Round struct {
	State   *State
	NewTurn int
	Combats []PendingCombat
	Report  Report

	// Absorbed maps detachments that rejoined their parent this round to
	// their names.
	Absorbed map[string]string
}

func (r Round) next() Round {
	out := r
	out.State = r.State.Copy()
	out.Combats = append([]PendingCombat{}, r.Combats...)
	out.Absorbed = make(map[string]string, len(r.Absorbed))
	for id, name := range r.Absorbed {
		out.Absorbed[id] = name
	}
	out.Report.Outcomes = make(map[Outcome]int, len(r.Report.Outcomes))
	for k, v := range r.Report.Outcomes {
		out.Report.Outcomes[k] = v
	}
	out.Report.Eliminated = append([]string{}, r.Report.Eliminated...)
	return out
}

type Phase struct {
	Name string
	Run  func(r Round, env Env) (Round, Notifications)
}

// Phases run in this order every round.
var Phases = []Phase{
	{Name: "movement", Run: resolveMovement},
	{Name: "detachments", Run: resolveDetachments},
	{Name: "effects", Run: resolveEffects},
	{Name: "combat", Run: resolveCombat},
}

// Resolve turns both teams' orders into the next state. The input is not
// modified. Orders are cleared, Blue plans next and the turn advances.
func Resolve(s *State, env Env) (*State, Notifications, Report) {
	round := Round{
		State:    s.Copy(),
		NewTurn:  s.Turn + 1,
		Absorbed: map[string]string{},
		Report:   Report{Turn: s.Turn, Outcomes: map[Outcome]int{}},
	}
	all := NewNotifications()
	for _, phase := range Phases {
		var notes Notifications
		round, notes = phase.Run(round, env)
		all.Merge(notes)
		log.Debug().Msgf("phase %s done, %d combats pending", phase.Name, len(round.Combats))
	}

	out := round.State
	out.ResetOrders()
	out.CurrentPlayer = Teams[0]
	out.Turn = round.NewTurn
	out.Notifications = all
	return out, all, round.Report
}

func resolveMovement(in Round, env Env) (Round, Notifications) {
	r := in.next()
	s := r.State
	notes := NewNotifications()

	for i := range s.Units {
		s.Units[i].LOSBoost = 0
		s.Units[i].Fortified = false
	}

	for _, team := range Teams {
		for _, id := range utils.SortedKeys(s.Orders[team]) {
			order := s.Orders[team][id]
			if order == nil {
				continue
			}
			u := s.Unit(id)
			if u == nil {
				panic(fmt.Sprintf("order stored for unknown unit %s", id))
			}
			switch o := order.(type) {
			case MoveOrder:
				if enemy := s.FirstEnemy(o.Dest, u.Team); enemy != nil {
					r.Combats = append(r.Combats, PendingCombat{AttackerID: id, DefenderID: enemy.ID})
					continue
				}
				if o.Dest != u.Position && s.Occupied(o.Dest) {
					r.Report.Blocked++
					notes.Add(u.Team, "%s could not move to %v, destination occupied", u.Name, o.Dest)
					continue
				}
				s.relocate(id, o.Dest)
				u = s.Unit(id)
				r.Report.Moves++
				if o.ForceMarch {
					u.Exhaustion += env.Config.Effects.ForceMarchExhaustion
					r.Report.ForcedMarches++
					notes.Add(u.Team, "%s force marched to %v", u.Name, o.Dest)
				} else {
					notes.Add(u.Team, "%s moved to %v", u.Name, o.Dest)
				}
			case AttackOrder:
				r.Combats = append(r.Combats, PendingCombat{AttackerID: id, DefenderID: o.TargetID})
			case FortifyOrder:
				u.Fortified = true
			}
		}
	}
	return r, notes
}

func resolveDetachments(in Round, env Env) (Round, Notifications) {
	r := in.next()
	s := r.State
	notes := NewNotifications()

	var due []string
	for _, u := range s.Units {
		if u.IsDetachment() && u.ReturnTurn <= r.NewTurn {
			due = append(due, u.ID)
		}
	}

	for _, id := range due {
		det := *s.Unit(id)
		parent := s.Unit(det.DivisionID)
		if parent == nil {
			// parent was destroyed while the detachment was away
			u := s.Unit(id)
			u.DivisionID = ""
			u.ReturnTurn = 0
			log.Debug().Msgf("detachment %s lost its division %s", id, det.DivisionID)
			notes.Add(det.Team, "%s has no division to return to and fights on alone", det.Name)
			continue
		}
		losses := det.FullStrength - det.Strength
		parent.DetachedStrength = max(0, parent.DetachedStrength-det.FullStrength)
		parent.Strength = max(0, parent.Strength-losses)
		parent.Horses += max(0, det.Horses-losses)
		parent.LOSBoost = env.Config.Scout.Boost
		notes.Add(parent.Team, "%s scouting detachment returned to %s. LOS boosted to %d hexes this turn",
			parent.Name, parent.Position, parent.LOSBoost)
		log.Debug().Msgf("detachment %s rejoined %s with %d of %d men", id, parent.ID, det.Strength, det.FullStrength)
		s.removeUnit(id)
		r.Absorbed[id] = det.Name
		r.Report.DetachmentsReturned++
	}
	return r, notes
}

func resolveEffects(in Round, env Env) (Round, Notifications) {
	r := in.next()
	s := r.State
	notes := NewNotifications()

	for i := range s.Units {
		u := &s.Units[i]
		if !u.Rest.Active || r.NewTurn <= u.Rest.Until {
			continue
		}
		u.Strength += u.Rest.Strength
		u.Rest = RestState{}
		r.Report.RestsEnded++
		notes.Add(u.Team, "%s finished resting, strength restored to %d", u.Name, u.Strength)
	}
	return r, notes
}

func resolveCombat(in Round, env Env) (Round, Notifications) {
	r := in.next()
	s := r.State
	notes := NewNotifications()
	resolver := NewResolver(env.Config, env.Source)

	for _, c := range r.Combats {
		attacker, defender := s.Unit(c.AttackerID), s.Unit(c.DefenderID)
		if attacker == nil || defender == nil {
			names := make([]string, 0, 2)
			for _, id := range []string{c.AttackerID, c.DefenderID} {
				if u := s.Unit(id); u != nil {
					names = append(names, u.Name)
					continue
				}
				name, ok := r.Absorbed[id]
				if !ok {
					panic(fmt.Sprintf("combat references unit %s which no phase removed", id))
				}
				names = append(names, name)
			}
			notes.Both("Combat between %s and %s avoided, scouting detachment rejoined its division", names[0], names[1])
			r.Report.Avoided++
			continue
		}
		if attacker.Strength <= 0 || defender.Strength <= 0 {
			continue
		}
		if hexgrid.Distance(attacker.Position, defender.Position) != 1 {
			notes.Both("Combat between %s and %s avoided, units no longer adjacent", attacker.Name, defender.Name)
			r.Report.Avoided++
			continue
		}

		e := resolver.Resolve(CombatantOf(*attacker), CombatantOf(*defender))
		r.Report.Combats++
		r.Report.Outcomes[e.Outcome]++
		log.Debug().Msgf("combat %s vs %s: surprise %d (%+d), ratio %s roll %d -> %s",
			attacker.ID, defender.ID, e.SurpriseRoll, e.SurpriseModifier, e.Ratio, e.Roll, e.Outcome)

		switch e.Outcome {
		case AttackerEliminated:
			attacker.Strength = 0
			notes.Add(attacker.Team, "Your unit %s was eliminated by %s", attacker.Name, defender.Name)
			notes.Add(defender.Team, "%s destroyed %s", defender.Name, attacker.Name)
		case DefenderEliminated:
			defender.Strength = 0
			notes.Add(defender.Team, "Your unit %s was eliminated by %s", defender.Name, attacker.Name)
			notes.Add(attacker.Team, "%s destroyed %s", attacker.Name, defender.Name)
		case AttackerRetreat:
			attacker.Strength /= 2
			notes.Add(attacker.Team, "%s retreated from %s with %d strength remaining", attacker.Name, defender.Name, attacker.Strength)
			notes.Add(defender.Team, "%s drove back %s", defender.Name, attacker.Name)
			retreat(&r, notes, env, attacker.ID, defender.Position)
		case DefenderRetreat:
			defender.Strength /= 2
			notes.Add(defender.Team, "%s retreated from %s with %d strength remaining", defender.Name, attacker.Name, defender.Strength)
			notes.Add(attacker.Team, "%s drove back %s", attacker.Name, defender.Name)
			retreat(&r, notes, env, defender.ID, attacker.Position)
		case NoEffect:
			notes.Both("Combat between %s and %s had no effect", attacker.Name, defender.Name)
		}
	}

	removeDestroyed(&r, notes)
	s.RebuildHexes()
	return r, notes
}

// retreat moves a unit two hexes away from its enemy to a random empty hex.
// With no such hex it stays put.
func retreat(r *Round, notes Notifications, env Env, id string, enemy hexgrid.Coord) {
	s := r.State
	u := s.Unit(id)
	if u.Strength <= 0 {
		return
	}
	current := hexgrid.Distance(u.Position, enemy)

	var options []hexgrid.Coord
	for _, c := range s.Grid().Coords() {
		if hexgrid.Distance(u.Position, c) != 2 {
			continue
		}
		if hexgrid.Distance(c, enemy) <= current {
			continue
		}
		if occupiedByLiving(s, c) {
			continue
		}
		options = append(options, c)
	}

	if len(options) == 0 {
		log.Debug().Msgf("%s cannot retreat from %v", id, u.Position)
		r.Report.HeldPosition++
		notes.Add(u.Team, "%s had nowhere to retreat, holding position", u.Name)
		return
	}
	dest := options[env.Source.Intn(len(options))]
	log.Debug().Msgf("%s retreats from %v to %v, %d options", id, u.Position, dest, len(options))
	s.relocate(id, dest)
	u = s.Unit(id)
	r.Report.Retreats++
	notes.Add(u.Team, "%s retreated to %v", u.Name, dest)
}

func occupiedByLiving(s *State, c hexgrid.Coord) bool {
	h := s.HexAt(c)
	if h == nil {
		return false
	}
	for _, id := range h.Units {
		if u := s.Unit(id); u != nil && u.Strength > 0 {
			return true
		}
	}
	return false
}

// removeDestroyed drops units with no strength left. A lost detachment costs
// its parent the men it took; detachments of a lost division carry on alone.
func removeDestroyed(r *Round, notes Notifications) {
	s := r.State
	for {
		var dead []Unit
		for _, u := range s.Units {
			if u.Strength <= 0 {
				dead = append(dead, u)
			}
		}
		if len(dead) == 0 {
			return
		}
		for _, u := range dead {
			s.removeUnit(u.ID)
			r.Report.Eliminated = append(r.Report.Eliminated, u.ID)
			if !u.IsDetachment() {
				continue
			}
			if parent := s.Unit(u.DivisionID); parent != nil {
				parent.DetachedStrength = max(0, parent.DetachedStrength-u.FullStrength)
				parent.Strength = max(0, parent.Strength-u.FullStrength)
				notes.Add(parent.Team, "%s lost its scouting detachment", parent.Name)
			}
		}
		for _, u := range dead {
			for i := range s.Units {
				if s.Units[i].DivisionID == u.ID {
					s.Units[i].DivisionID = ""
					s.Units[i].ReturnTurn = 0
				}
			}
		}
	}
}
