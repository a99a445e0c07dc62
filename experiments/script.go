package experiments

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"napoleon/game"
	"napoleon/hexgrid"
)

// Script is a scripted hotseat game: the orders each side gives, turn by
// turn, replayed over a range of seeds.
type Script struct {
	Name  string   `yaml:"name"`
	Seed  uint64   `yaml:"seed"`
	Runs  int      `yaml:"runs"`
	Turns []Orders `yaml:"turns"`
}

// Orders are one round's orders, keyed by team.
type Orders map[game.Team][]OrderSpec

type OrderSpec struct {
	Unit       string         `yaml:"unit"`
	Order      game.OrderKind `yaml:"order"`
	Dest       []int          `yaml:"dest"`
	Target     string         `yaml:"target"`
	ForceMarch bool           `yaml:"forceMarch"`
}

func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("load script %s: %w", path, err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("load script %s: %w", path, err)
	}
	return script, nil
}

func ParseScript(data []byte) (Script, error) {
	script := Script{Runs: 1}
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}
	if script.Runs < 1 {
		return Script{}, fmt.Errorf("runs must be at least 1, got %d", script.Runs)
	}
	for i, turn := range script.Turns {
		for team, specs := range turn {
			if !team.Valid() {
				return Script{}, fmt.Errorf("turn %d: unknown team %q", i+1, team)
			}
			for _, spec := range specs {
				if _, err := spec.Build(); err != nil {
					return Script{}, fmt.Errorf("turn %d: %w", i+1, err)
				}
			}
		}
	}
	return script, nil
}

// Seeds lists the seed of every run.
func (s Script) Seeds() []uint64 {
	seeds := make([]uint64, s.Runs)
	for i := range seeds {
		seeds[i] = s.Seed + uint64(i)
	}
	return seeds
}

// Build converts the scripted entry into an order the engine accepts.
func (o OrderSpec) Build() (game.Order, error) {
	if o.Unit == "" {
		return nil, fmt.Errorf("order %q has no unit", o.Order)
	}
	switch o.Order {
	case game.KindMove:
		if len(o.Dest) != 2 {
			return nil, fmt.Errorf("move for %s needs dest [q, r], got %v", o.Unit, o.Dest)
		}
		return game.MoveOrder{Dest: hexgrid.Coord{Q: o.Dest[0], R: o.Dest[1]}, ForceMarch: o.ForceMarch}, nil
	case game.KindAttack:
		if o.Target == "" {
			return nil, fmt.Errorf("attack for %s needs a target", o.Unit)
		}
		return game.AttackOrder{TargetID: o.Target}, nil
	case game.KindScout:
		return game.ScoutOrder{}, nil
	case game.KindRest:
		return game.RestOrder{}, nil
	case game.KindFortify:
		return game.FortifyOrder{}, nil
	default:
		return nil, fmt.Errorf("unknown order %q for %s", o.Order, o.Unit)
	}
}
