package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Source supplies uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded source. Two sources with the same seed produce
// the same rolls.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewSource(seed))
}

// Outcome is a combat result table entry.
type Outcome string

const (
	AttackerEliminated Outcome = "AE"
	AttackerRetreat    Outcome = "AR"
	NoEffect           Outcome = "NE"
	DefenderRetreat    Outcome = "DR"
	DefenderEliminated Outcome = "DE"
)

func (o Outcome) Valid() bool {
	switch o {
	case AttackerEliminated, AttackerRetreat, NoEffect, DefenderRetreat, DefenderEliminated:
		return true
	}
	return false
}

type RatioBucket string

const (
	Ratio1to3 RatioBucket = "1:3"
	Ratio1to2 RatioBucket = "1:2"
	Ratio1to1 RatioBucket = "1:1"
	Ratio2to1 RatioBucket = "2:1"
	Ratio3to1 RatioBucket = "3:1"
	Ratio4to1 RatioBucket = "4:1"
)

var RatioBuckets = []RatioBucket{Ratio1to3, Ratio1to2, Ratio1to1, Ratio2to1, Ratio3to1, Ratio4to1}

type RollBucket string

const (
	RollLow    RollBucket = "<=5"
	Roll6to8   RollBucket = "6-8"
	Roll9to11  RollBucket = "9-11"
	Roll12to14 RollBucket = "12-14"
	RollHigh   RollBucket = "15+"
)

var RollBuckets = []RollBucket{RollLow, Roll6to8, Roll9to11, Roll12to14, RollHigh}

// RatioFor buckets an attacker:defender strength ratio. A defender with no
// strength left falls in the top bucket.
func RatioFor(attacker, defender int) RatioBucket {
	if defender <= 0 {
		return Ratio4to1
	}
	ratio := float64(attacker) / float64(defender)
	switch {
	case ratio <= 0.33:
		return Ratio1to3
	case ratio <= 0.5:
		return Ratio1to2
	case ratio <= 1.5:
		return Ratio1to1
	case ratio <= 2.5:
		return Ratio2to1
	case ratio <= 3.5:
		return Ratio3to1
	default:
		return Ratio4to1
	}
}

// RollFor buckets a modified 2d6 roll. Modifiers may push it outside 2..12.
func RollFor(roll int) RollBucket {
	switch {
	case roll <= 5:
		return RollLow
	case roll <= 8:
		return Roll6to8
	case roll <= 11:
		return Roll9to11
	case roll <= 14:
		return Roll12to14
	default:
		return RollHigh
	}
}

// Table maps ratio and roll buckets to an outcome.
type Table map[RatioBucket]map[RollBucket]Outcome

func (t Table) Copy() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for ratio, row := range t {
		r := make(map[RollBucket]Outcome, len(row))
		for roll, o := range row {
			r[roll] = o
		}
		out[ratio] = r
	}
	return out
}

func StandardTable() Table {
	row := func(outcomes ...Outcome) map[RollBucket]Outcome {
		m := make(map[RollBucket]Outcome, len(RollBuckets))
		for i, b := range RollBuckets {
			m[b] = outcomes[i]
		}
		return m
	}
	return Table{
		Ratio1to3: row(AttackerEliminated, AttackerEliminated, AttackerRetreat, NoEffect, DefenderRetreat),
		Ratio1to2: row(AttackerEliminated, AttackerRetreat, NoEffect, DefenderRetreat, DefenderEliminated),
		Ratio1to1: row(AttackerRetreat, NoEffect, DefenderRetreat, DefenderEliminated, DefenderEliminated),
		Ratio2to1: row(NoEffect, DefenderRetreat, DefenderEliminated, DefenderEliminated, DefenderEliminated),
		Ratio3to1: row(DefenderRetreat, DefenderEliminated, DefenderEliminated, DefenderEliminated, DefenderEliminated),
		Ratio4to1: row(DefenderEliminated, DefenderEliminated, DefenderEliminated, DefenderEliminated, DefenderEliminated),
	}
}

// Validate checks that every bucket pair has exactly one valid outcome.
func (t Table) Validate() error {
	for _, ratio := range RatioBuckets {
		row, ok := t[ratio]
		if !ok {
			return fmt.Errorf("combat table has no row for %s", ratio)
		}
		for _, roll := range RollBuckets {
			o, ok := row[roll]
			if !ok {
				return fmt.Errorf("combat table row %s has no entry for roll %s", ratio, roll)
			}
			if !o.Valid() {
				return fmt.Errorf("combat table row %s roll %s: unknown outcome %q", ratio, roll, o)
			}
		}
		if len(row) != len(RollBuckets) {
			return fmt.Errorf("combat table row %s has unknown roll buckets", ratio)
		}
	}
	if len(t) != len(RatioBuckets) {
		return fmt.Errorf("combat table has unknown ratio rows")
	}
	return nil
}

func (t Table) Lookup(ratio RatioBucket, roll RollBucket) Outcome {
	o, ok := t[ratio][roll]
	if !ok {
		panic(fmt.Sprintf("combat table has no entry for %s / %s", ratio, roll))
	}
	return o
}

// Combatant is the part of a unit combat looks at.
type Combatant struct {
	ID         string
	Strength   int
	Skill      int
	Exhaustion int
}

func CombatantOf(u Unit) Combatant {
	return Combatant{ID: u.ID, Strength: u.EffectiveStrength(), Skill: u.Skill, Exhaustion: u.Exhaustion}
}

// Engagement records how one combat was decided.
type Engagement struct {
	SurpriseRoll     int
	SurpriseModifier int
	FatigueModifier  int
	Roll             int
	Ratio            RatioBucket
	RollBucket       RollBucket
	Outcome          Outcome
}

// Resolver decides combats with the result table.
type Resolver struct {
	table   Table
	effects EffectsConfig
	source  Source
}

func NewResolver(cfg Config, source Source) *Resolver {
	return &Resolver{table: cfg.CombatTable, effects: cfg.Effects, source: source}
}

func (r *Resolver) roll2d6() int {
	return r.source.Intn(6) + 1 + r.source.Intn(6) + 1
}

// Resolve rolls for surprise, then for the result itself. The same source
// state always gives the same engagement.
func (r *Resolver) Resolve(attacker, defender Combatant) Engagement {
	e := Engagement{}

	e.SurpriseRoll = r.roll2d6() + attacker.Skill - defender.Skill
	if e.SurpriseRoll > r.effects.SurpriseThreshold {
		e.SurpriseModifier = r.effects.SurpriseModifier
	} else {
		e.SurpriseModifier = -r.effects.SurpriseModifier
	}

	// exhaustion lowers effective skill on both sides
	e.FatigueModifier = r.effects.ExhaustionSkill * (attacker.Exhaustion - defender.Exhaustion)

	e.Roll = r.roll2d6() + e.SurpriseModifier + e.FatigueModifier
	e.Ratio = RatioFor(attacker.Strength, defender.Strength)
	e.RollBucket = RollFor(e.Roll)
	e.Outcome = r.table.Lookup(e.Ratio, e.RollBucket)
	return e
}
