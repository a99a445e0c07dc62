package game

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"napoleon/hexgrid"
)

// sequenceSource replays fixed values, cycling when it runs out.
type sequenceSource struct {
	values []int
	next   int
}

func (s *sequenceSource) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func newTestState(t *testing.T, units ...Unit) *State {
	t.Helper()
	s := NewState(10, 10, DefaultConfig())
	for _, u := range units {
		if u.FullStrength == 0 {
			u.FullStrength = u.Strength
		}
		if u.Kind == "" {
			u.Kind = Infantry
		}
		s.placeUnit(u)
	}
	require.NoError(t, s.CheckConsistency())
	return s
}

func blue(id string, q, r, strength int) Unit {
	return Unit{ID: id, Name: "Blue " + id, Team: Blue, Position: hexgrid.Coord{Q: q, R: r}, Strength: strength, Skill: 3}
}

func red(id string, q, r, strength int) Unit {
	return Unit{ID: id, Name: "Red " + id, Team: Red, Position: hexgrid.Coord{Q: q, R: r}, Strength: strength, Skill: 3}
}

func issue(t *testing.T, s *State, id string, o Order) {
	t.Helper()
	require.NoError(t, o.Validate(s, id, s.Config))
	o.Apply(s, id, s.Config)
}

func containsMsg(msgs []string, fragment string) bool {
	for _, m := range msgs {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

func TestCombatTable(t *testing.T) {
	t.Run("standard table is total", func(t *testing.T) {
		table := StandardTable()
		require.NoError(t, table.Validate())
		for _, ratio := range RatioBuckets {
			for _, roll := range RollBuckets {
				require.True(t, table.Lookup(ratio, roll).Valid(), "entry %s/%s", ratio, roll)
			}
		}
	})

	t.Run("incomplete table is rejected", func(t *testing.T) {
		table := StandardTable()
		delete(table[Ratio2to1], Roll9to11)
		require.Error(t, table.Validate())
	})

	t.Run("ratio buckets", func(t *testing.T) {
		require.Equal(t, Ratio1to3, RatioFor(100, 400))
		require.Equal(t, Ratio1to2, RatioFor(500, 1000))
		require.Equal(t, Ratio1to1, RatioFor(1000, 1000))
		require.Equal(t, Ratio2to1, RatioFor(2000, 1000))
		require.Equal(t, Ratio3to1, RatioFor(3000, 1000))
		require.Equal(t, Ratio4to1, RatioFor(5000, 1000))
		require.Equal(t, Ratio4to1, RatioFor(10, 0), "a defender with nothing left is overwhelmed")
	})

	t.Run("roll buckets", func(t *testing.T) {
		require.Equal(t, RollLow, RollFor(-1))
		require.Equal(t, Roll6to8, RollFor(8))
		require.Equal(t, Roll9to11, RollFor(9))
		require.Equal(t, Roll12to14, RollFor(14))
		require.Equal(t, RollHigh, RollFor(15))
	})
}

func TestResolver(t *testing.T) {
	attacker := Combatant{ID: "a", Strength: 1000, Skill: 3}
	defender := Combatant{ID: "d", Strength: 1000, Skill: 3}

	t.Run("same seed gives same engagement", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			first := NewResolver(DefaultConfig(), NewSource(seed)).Resolve(attacker, defender)
			second := NewResolver(DefaultConfig(), NewSource(seed)).Resolve(attacker, defender)
			require.Equal(t, first, second, "seed %d", seed)
		}
	})

	t.Run("surprise favours the attacker on a high roll", func(t *testing.T) {
		// surprise 6+6, main 1+1
		e := NewResolver(DefaultConfig(), &sequenceSource{values: []int{5, 5, 0, 0}}).Resolve(attacker, defender)
		require.Equal(t, 12, e.SurpriseRoll)
		require.Equal(t, 3, e.SurpriseModifier)
		require.Equal(t, 5, e.Roll)
		require.Equal(t, AttackerRetreat, e.Outcome)
	})

	t.Run("surprise penalises the attacker on a low roll", func(t *testing.T) {
		e := NewResolver(DefaultConfig(), &sequenceSource{values: []int{0, 0, 5, 5}}).Resolve(attacker, defender)
		require.Equal(t, -3, e.SurpriseModifier)
		require.Equal(t, 9, e.Roll)
		require.Equal(t, DefenderRetreat, e.Outcome)
	})

	t.Run("exhaustion shifts the roll", func(t *testing.T) {
		tired := attacker
		tired.Exhaustion = 2
		e := NewResolver(DefaultConfig(), &sequenceSource{values: []int{5, 5, 2, 2}}).Resolve(tired, defender)
		require.Equal(t, -2, e.FatigueModifier)
		require.Equal(t, 7, e.Roll)
	})

	t.Run("overwhelming odds always destroy the defender", func(t *testing.T) {
		strong := Combatant{ID: "a", Strength: 5000, Skill: 0}
		weak := Combatant{ID: "d", Strength: 1000, Skill: 6}
		for a := 0; a < 6; a++ {
			for b := 0; b < 6; b++ {
				src := &sequenceSource{values: []int{a, b, a, b}}
				e := NewResolver(DefaultConfig(), src).Resolve(strong, weak)
				require.Equal(t, DefenderEliminated, e.Outcome, "dice %d %d", a+1, b+1)
			}
		}
	})
}

func TestOrders(t *testing.T) {
	t.Run("move beyond range is rejected", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 1000))
		cfg := s.Config
		cfg.Move.Infantry = 2
		err := MoveOrder{Dest: hexgrid.Coord{Q: 5, R: 2}}.Validate(s, "U1", cfg)
		require.ErrorIs(t, err, ErrInvalidOrder)
		require.NoError(t, MoveOrder{Dest: hexgrid.Coord{Q: 4, R: 2}}.Validate(s, "U1", cfg))
	})

	t.Run("forced march extends range", func(t *testing.T) {
		s := newTestState(t, blue("U1", 0, 0, 1000))
		dest := hexgrid.Coord{Q: 8, R: 0}
		require.Error(t, MoveOrder{Dest: dest}.Validate(s, "U1", s.Config))
		require.NoError(t, MoveOrder{Dest: dest, ForceMarch: true}.Validate(s, "U1", s.Config))
	})

	t.Run("move off the map is rejected", func(t *testing.T) {
		s := newTestState(t, blue("U1", 0, 0, 1000))
		err := MoveOrder{Dest: hexgrid.Coord{Q: -1, R: 0}}.Validate(s, "U1", s.Config)
		require.ErrorIs(t, err, ErrInvalidOrder)
	})

	t.Run("attack needs an adjacent enemy", func(t *testing.T) {
		s := newTestState(t,
			blue("U1", 2, 2, 1000),
			blue("U3", 2, 3, 1000),
			red("U2", 3, 2, 1000),
			red("U4", 7, 7, 1000),
		)
		require.NoError(t, AttackOrder{TargetID: "U2"}.Validate(s, "U1", s.Config))
		require.ErrorIs(t, AttackOrder{TargetID: "U3"}.Validate(s, "U1", s.Config), ErrInvalidOrder, "friendly target")
		require.ErrorIs(t, AttackOrder{TargetID: "U4"}.Validate(s, "U1", s.Config), ErrInvalidOrder, "distant target")
		require.ErrorIs(t, AttackOrder{TargetID: "nobody"}.Validate(s, "U1", s.Config), ErrInvalidOrder)
		require.ErrorIs(t, AttackOrder{TargetID: "U2"}.Validate(s, "ghost", s.Config), ErrUnknownUnit)
	})

	t.Run("scout sends out a detachment", func(t *testing.T) {
		u := blue("U1", 4, 4, 5000)
		u.Horses = 800
		s := newTestState(t, u)
		issue(t, s, "U1", ScoutOrder{})

		det := s.Unit("U1_scout_1")
		require.NotNil(t, det)
		require.Equal(t, 800, det.Strength)
		require.Equal(t, "U1", det.DivisionID)
		require.Equal(t, u.Position, det.Position)
		require.Equal(t, 2, det.ReturnTurn)

		parent := s.Unit("U1")
		require.Equal(t, 800, parent.DetachedStrength)
		require.Equal(t, 0, parent.Horses)
		require.Equal(t, 4200, parent.EffectiveStrength())
		require.Equal(t, []string{"U1", "U1_scout_1"}, s.HexAt(u.Position).Units)
		require.NoError(t, s.CheckConsistency())

		require.ErrorIs(t, ScoutOrder{}.Validate(s, "U1", s.Config), ErrInvalidOrder, "no horses left")
		require.ErrorIs(t, ScoutOrder{}.Validate(s, "U1_scout_1", s.Config), ErrInvalidOrder, "detachments cannot scout")
	})

	t.Run("scout without horses is rejected", func(t *testing.T) {
		s := newTestState(t, blue("U1", 4, 4, 5000))
		require.ErrorIs(t, ScoutOrder{}.Validate(s, "U1", s.Config), ErrInvalidOrder)
	})

	t.Run("rest holds back strength", func(t *testing.T) {
		u := blue("U1", 4, 4, 5000)
		u.Exhaustion = 3
		s := newTestState(t, u)
		issue(t, s, "U1", RestOrder{})
		rested := s.Unit("U1")
		require.Equal(t, 4500, rested.Strength)
		require.Zero(t, rested.Exhaustion)
		require.Equal(t, RestState{Active: true, Until: 2, Strength: 500}, rested.Rest)
		require.ErrorIs(t, RestOrder{}.Validate(s, "U1", s.Config), ErrInvalidOrder)
	})

	t.Run("validate does not touch the state", func(t *testing.T) {
		u := blue("U1", 4, 4, 5000)
		u.Horses = 100
		s := newTestState(t, u)
		before := s.Copy()
		for _, o := range []Order{ScoutOrder{}, RestOrder{}, FortifyOrder{}, MoveOrder{Dest: hexgrid.Coord{Q: 5, R: 5}}} {
			require.NoError(t, o.Validate(s, "U1", s.Config))
		}
		require.Equal(t, before, s)
	})
}

func TestResolve(t *testing.T) {
	env := func(src Source) Env { return Env{Config: DefaultConfig(), Source: src} }

	t.Run("overwhelming attack removes the defender", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 5000), red("U2", 3, 2, 1000))
		issue(t, s, "U1", AttackOrder{TargetID: "U2"})

		next, notes, report := Resolve(s, env(NewSource(1)))
		require.Nil(t, next.Unit("U2"))
		require.Empty(t, next.HexAt(hexgrid.Coord{Q: 3, R: 2}).Units)
		require.Equal(t, 5000, next.Unit("U1").Strength)
		require.True(t, containsMsg(notes[Blue], "destroyed Red U2"))
		require.True(t, containsMsg(notes[Red], "Your unit Red U2 was eliminated"))
		require.Equal(t, []string{"U2"}, report.Eliminated)
		require.Equal(t, 1, report.Outcomes[DefenderEliminated])
		require.NoError(t, next.CheckConsistency())
	})

	t.Run("input state is untouched", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 5000), red("U2", 3, 2, 1000))
		issue(t, s, "U1", AttackOrder{TargetID: "U2"})
		before := s.Copy()
		Resolve(s, env(NewSource(1)))
		require.Equal(t, before, s)
	})

	t.Run("turn advances and orders clear", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 1000), red("U2", 8, 8, 1000))
		issue(t, s, "U1", MoveOrder{Dest: hexgrid.Coord{Q: 4, R: 2}})
		s.CurrentPlayer = Red

		next, notes, _ := Resolve(s, env(NewSource(1)))
		require.Equal(t, 2, next.Turn)
		require.Equal(t, Blue, next.CurrentPlayer)
		require.Empty(t, next.Orders[Blue])
		require.Empty(t, next.Orders[Red])
		require.Equal(t, hexgrid.Coord{Q: 4, R: 2}, next.Unit("U1").Position)
		require.Equal(t, []string{"Blue U1 moved to [4, 2]"}, notes[Blue])
		require.Empty(t, notes[Red])
	})

	t.Run("forced march tires the unit", func(t *testing.T) {
		s := newTestState(t, blue("U1", 0, 0, 1000))
		issue(t, s, "U1", MoveOrder{Dest: hexgrid.Coord{Q: 8, R: 0}, ForceMarch: true})
		next, _, report := Resolve(s, env(NewSource(1)))
		require.Equal(t, 1, next.Unit("U1").Exhaustion)
		require.Equal(t, 1, report.ForcedMarches)
	})

	t.Run("moving onto an enemy attacks it", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 5000), red("U2", 3, 2, 1000))
		issue(t, s, "U1", MoveOrder{Dest: hexgrid.Coord{Q: 3, R: 2}})
		next, _, report := Resolve(s, env(NewSource(3)))
		require.Equal(t, 1, report.Combats)
		require.Nil(t, next.Unit("U2"))
		require.Equal(t, hexgrid.Coord{Q: 2, R: 2}, next.Unit("U1").Position, "the attacker does not advance")
	})

	t.Run("moving onto a friend holds position", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 1000), blue("U2", 3, 2, 1000))
		issue(t, s, "U1", MoveOrder{Dest: hexgrid.Coord{Q: 3, R: 2}})

		next, notes, report := Resolve(s, env(NewSource(1)))
		require.Equal(t, hexgrid.Coord{Q: 2, R: 2}, next.Unit("U1").Position)
		require.Equal(t, []string{"U1"}, next.HexAt(hexgrid.Coord{Q: 2, R: 2}).Units)
		require.Equal(t, []string{"U2"}, next.HexAt(hexgrid.Coord{Q: 3, R: 2}).Units)
		require.Zero(t, report.Moves)
		require.Zero(t, report.Combats)
		require.Equal(t, 1, report.Blocked)
		require.Equal(t, []string{"Blue U1 could not move to [3, 2], destination occupied"}, notes[Blue])
		require.NoError(t, next.CheckConsistency())
	})

	t.Run("attack on a returning detachment is reported", func(t *testing.T) {
		u := blue("U1", 4, 4, 5000)
		u.Horses = 800
		s := newTestState(t, u, red("R1", 5, 4, 3000))
		issue(t, s, "U1", ScoutOrder{})
		issue(t, s, "R1", AttackOrder{TargetID: "U1_scout_1"})

		next, notes, report := Resolve(s, env(NewSource(1)))
		require.Nil(t, next.Unit("U1_scout_1"))
		require.Equal(t, 5000, next.Unit("U1").Strength)
		require.Equal(t, 3000, next.Unit("R1").Strength)
		require.Zero(t, report.Combats)
		require.Equal(t, 1, report.Avoided)
		require.True(t, containsMsg(notes[Red], "Combat between Red R1 and Blue U1 Scouts avoided"))
		require.True(t, containsMsg(notes[Blue], "Combat between Red R1 and Blue U1 Scouts avoided"))
		require.True(t, containsMsg(notes[Blue], "scouting detachment returned"))
	})

	t.Run("combat is avoided when the target moves away", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 5000), red("U2", 3, 2, 1000))
		issue(t, s, "U1", AttackOrder{TargetID: "U2"})
		issue(t, s, "U2", MoveOrder{Dest: hexgrid.Coord{Q: 6, R: 2}})

		next, notes, report := Resolve(s, env(NewSource(1)))
		require.NotNil(t, next.Unit("U2"))
		require.Equal(t, hexgrid.Coord{Q: 6, R: 2}, next.Unit("U2").Position)
		require.Equal(t, 1, report.Avoided)
		require.True(t, containsMsg(notes[Blue], "avoided"))
		require.True(t, containsMsg(notes[Red], "avoided"))
	})

	t.Run("defender retreats two hexes", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 1000), red("U2", 3, 2, 1000))
		issue(t, s, "U1", AttackOrder{TargetID: "U2"})

		// surprise 6+6 (+3), main 3+3 = 9 -> DR at 1:1, then first retreat option
		next, notes, report := Resolve(s, env(&sequenceSource{values: []int{5, 5, 2, 2, 0}}))
		require.Equal(t, 1, report.Outcomes[DefenderRetreat])
		u2 := next.Unit("U2")
		require.Equal(t, 500, u2.Strength)
		require.Equal(t, 2, hexgrid.Distance(u2.Position, hexgrid.Coord{Q: 3, R: 2}))
		require.Greater(t, hexgrid.Distance(u2.Position, hexgrid.Coord{Q: 2, R: 2}), 1)
		require.True(t, containsMsg(notes[Red], "retreated from Blue U1 with 500 strength remaining"))
		require.True(t, containsMsg(notes[Blue], "drove back Red U2"))
		require.NoError(t, next.CheckConsistency())
	})

	t.Run("cornered unit holds position", func(t *testing.T) {
		s := NewState(2, 2, DefaultConfig())
		s.placeUnit(blue("U1", 0, 0, 1000))
		s.placeUnit(red("U2", 1, 0, 1000))
		issue(t, s, "U1", AttackOrder{TargetID: "U2"})

		next, notes, report := Resolve(s, env(&sequenceSource{values: []int{5, 5, 2, 2}}))
		require.Equal(t, 1, report.HeldPosition)
		require.Equal(t, hexgrid.Coord{Q: 1, R: 0}, next.Unit("U2").Position)
		require.True(t, containsMsg(notes[Red], "nowhere to retreat"))
	})

	t.Run("rest ends after its duration", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 5000))
		issue(t, s, "U1", RestOrder{})

		second, _, _ := Resolve(s, env(NewSource(1)))
		require.True(t, second.Unit("U1").Rest.Active, "still resting on turn 2")
		require.Equal(t, 4500, second.Unit("U1").Strength)

		third, notes, report := Resolve(second, env(NewSource(1)))
		require.False(t, third.Unit("U1").Rest.Active)
		require.Equal(t, 5000, third.Unit("U1").Strength)
		require.Equal(t, 1, report.RestsEnded)
		require.True(t, containsMsg(notes[Blue], "finished resting"))
	})

	t.Run("scouts return and boost sight", func(t *testing.T) {
		u := blue("U1", 4, 4, 5000)
		u.Horses = 800
		s := newTestState(t, u)
		issue(t, s, "U1", ScoutOrder{})
		issue(t, s, "U1_scout_1", MoveOrder{Dest: hexgrid.Coord{Q: 8, R: 4}})

		next, notes, report := Resolve(s, env(NewSource(1)))
		require.Nil(t, next.Unit("U1_scout_1"))
		parent := next.Unit("U1")
		require.Zero(t, parent.DetachedStrength)
		require.Equal(t, 800, parent.Horses)
		require.Equal(t, 10, parent.LOSBoost)
		require.Equal(t, 1, report.DetachmentsReturned)
		require.True(t, containsMsg(notes[Blue], "scouting detachment returned"))
		require.NoError(t, next.CheckConsistency())

		after, _, _ := Resolve(next, env(NewSource(1)))
		require.Zero(t, after.Unit("U1").LOSBoost, "the boost lasts one round")
	})

	t.Run("destroyed detachment costs its parent", func(t *testing.T) {
		u := blue("U1", 0, 0, 1000)
		u.Horses = 100
		s := newTestState(t, u, red("U2", 5, 5, 5000))
		issue(t, s, "U1", ScoutOrder{})
		issue(t, s, "U1_scout_1", MoveOrder{Dest: hexgrid.Coord{Q: 4, R: 5}})
		// red moves after blue, so it runs into the detachment
		issue(t, s, "U2", MoveOrder{Dest: hexgrid.Coord{Q: 4, R: 5}})
		s.Unit("U1_scout_1").ReturnTurn = 4

		next, _, report := Resolve(s, env(NewSource(1)))
		require.Contains(t, report.Eliminated, "U1_scout_1")
		parent := next.Unit("U1")
		require.Equal(t, 900, parent.Strength)
		require.Zero(t, parent.DetachedStrength)
		require.NoError(t, next.CheckConsistency())
	})
}

func TestResolveLogging(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = saved })

	u := blue("U1", 2, 2, 1000)
	u.Horses = 200
	s := newTestState(t, u, red("U2", 3, 2, 1000))
	issue(t, s, "U1", ScoutOrder{})
	issue(t, s, "U1", AttackOrder{TargetID: "U2"})

	Resolve(s, Env{Config: DefaultConfig(), Source: &sequenceSource{values: []int{5, 5, 2, 2, 0}}})
	out := buf.String()
	require.Contains(t, out, "combat U1 vs U2: surprise 12 (+3), ratio")
	require.Contains(t, out, "detachment U1_scout_1 rejoined U1")
	require.Contains(t, out, "U2 retreats from [3, 2]")
}

func TestStateCopy(t *testing.T) {
	s := newTestState(t, blue("U1", 2, 2, 1000))
	issue(t, s, "U1", FortifyOrder{})
	cp := s.Copy()
	cp.Unit("U1").Strength = 1
	cp.HexAt(hexgrid.Coord{Q: 2, R: 2}).Units = append(cp.HexAt(hexgrid.Coord{Q: 2, R: 2}).Units, "X")
	delete(cp.Orders[Blue], "U1")
	cp.Notifications.Add(Blue, "hello")

	require.Equal(t, 1000, s.Unit("U1").Strength)
	require.Equal(t, []string{"U1"}, s.HexAt(hexgrid.Coord{Q: 2, R: 2}).Units)
	require.Contains(t, s.Orders[Blue], "U1")
	require.Empty(t, s.Notifications[Blue])
}

func TestConfig(t *testing.T) {
	t.Run("yaml overlays defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("move:\n  infantry: 2\nterrain:\n  woods: 4\n"))
		require.NoError(t, err)
		require.Equal(t, 2, cfg.Move.Infantry)
		require.Equal(t, 15, cfg.Move.Cavalry)
		require.Equal(t, 4.0, cfg.Terrain[Woods])
		require.Equal(t, 3.0, cfg.Terrain[Hills])
	})

	t.Run("combat table row can be replaced", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`combatTable:
  "1:1": {"<=5": NE, "6-8": NE, "9-11": NE, "12-14": NE, "15+": NE}
`))
		require.NoError(t, err)
		require.Equal(t, NoEffect, cfg.CombatTable.Lookup(Ratio1to1, RollLow))
		require.Equal(t, DefenderEliminated, cfg.CombatTable.Lookup(Ratio4to1, RollLow))
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := ParseConfig([]byte("attack:\n  range: 0\n"))
		require.Error(t, err)
		_, err = ParseConfig([]byte(`combatTable:
  "1:1": {"<=5": XX}
`))
		require.Error(t, err)
		_, err = ParseConfig([]byte("terrain:\n  lava: 2\n"))
		require.Error(t, err)
	})
}

func TestRules(t *testing.T) {
	t.Run("roads and rivers change step cost", func(t *testing.T) {
		s := NewState(6, 6, DefaultConfig())
		a, b, c := hexgrid.Coord{Q: 1, R: 1}, hexgrid.Coord{Q: 2, R: 1}, hexgrid.Coord{Q: 3, R: 1}
		s.Roads[a] = []hexgrid.Coord{b}
		s.Roads[b] = []hexgrid.Coord{a}
		s.HexAt(c).Terrain = Woods
		s.HexAt(b).Rivers[hexgrid.East] = true
		s.HexAt(c).Height = 1

		cost := s.Config.StepCost(s)
		require.Equal(t, 0.5, cost(a, b))
		require.Equal(t, 0.5, cost(b, a))
		require.Equal(t, 2.0+1+1, cost(b, c), "woods plus a river plus a climb")
	})

	t.Run("cavalry range", func(t *testing.T) {
		cfg := DefaultConfig()
		require.Equal(t, 15, cfg.MoveRange(Unit{Kind: Cavalry}, false))
		require.Equal(t, 15, cfg.MoveRange(Unit{Kind: Cavalry}, true))
		require.Equal(t, 10, cfg.MoveRange(Unit{Kind: Infantry}, true))
	})

	t.Run("woods hide what lies behind", func(t *testing.T) {
		s := newTestState(t, blue("U1", 2, 2, 1000))
		s.HexAt(hexgrid.Coord{Q: 3, R: 2}).Terrain = Woods
		seen := Visible(s, Blue)
		require.True(t, seen[hexgrid.Coord{Q: 3, R: 2}])
		require.True(t, seen[hexgrid.Coord{Q: 1, R: 2}])
		require.True(t, seen[hexgrid.Coord{Q: 5, R: 2}] == false)
		require.False(t, Visible(s, Red)[hexgrid.Coord{Q: 2, R: 2}], "red has no units")
	})

	t.Run("plan path within range", func(t *testing.T) {
		s := newTestState(t, blue("U1", 0, 0, 1000))
		path, cost := PlanPath(s, *s.Unit("U1"), hexgrid.Coord{Q: 3, R: 0}, false)
		require.Len(t, path, 4)
		require.Equal(t, 3.0, cost)
		path, _ = PlanPath(s, *s.Unit("U1"), hexgrid.Coord{Q: 9, R: 0}, false)
		require.Nil(t, path)
	})
}
