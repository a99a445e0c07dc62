package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type MoveConfig struct {
	Infantry         int     `yaml:"infantry"`
	Cavalry          int     `yaml:"cavalry"`
	ForceMarch       int     `yaml:"forceMarch"`
	RoadCost         float64 `yaml:"roadCost"`
	ElevationPenalty float64 `yaml:"elevationPenalty"`
	RiverPenalty     float64 `yaml:"riverPenalty"`
}

type AttackConfig struct {
	Range int `yaml:"range"`
}

// ScoutConfig governs detachments sent out with a scout order.
type ScoutConfig struct {
	LOS              int     `yaml:"los"`
	Boost            int     `yaml:"boost"`
	ReturnTurns      int     `yaml:"returnTurns"`
	StrengthFraction float64 `yaml:"strengthFraction"`
}

// RestConfig: Strength is the fractional strength change while resting (negative).
type RestConfig struct {
	Strength float64 `yaml:"strength"`
	Duration int     `yaml:"duration"`
}

type EffectsConfig struct {
	ExhaustionSkill      int `yaml:"exhaustionSkill"`
	ForceMarchExhaustion int `yaml:"forceMarchExhaustion"`
	SurpriseThreshold    int `yaml:"surpriseThreshold"`
	SurpriseModifier     int `yaml:"surpriseModifier"`
}

type VisionConfig struct {
	Base     int       `yaml:"base"`
	Blocking []Terrain `yaml:"blocking"`
}

// Config is the rule set. It is read-only once a game starts.
type Config struct {
	Move        MoveConfig          `yaml:"move"`
	Attack      AttackConfig        `yaml:"attack"`
	Scout       ScoutConfig         `yaml:"scout"`
	Rest        RestConfig          `yaml:"rest"`
	Effects     EffectsConfig       `yaml:"effects"`
	Vision      VisionConfig        `yaml:"vision"`
	Terrain     map[Terrain]float64 `yaml:"terrain"`
	CombatTable Table               `yaml:"combatTable"`
}

// Copy returns a Config that shares no maps or slices with c.
func (c Config) Copy() Config {
	out := c
	out.Vision.Blocking = append([]Terrain(nil), c.Vision.Blocking...)
	if c.Terrain != nil {
		out.Terrain = make(map[Terrain]float64, len(c.Terrain))
		for k, v := range c.Terrain {
			out.Terrain[k] = v
		}
	}
	out.CombatTable = c.CombatTable.Copy()
	return out
}

func DefaultConfig() Config {
	return Config{
		Move: MoveConfig{
			Infantry:         5,
			Cavalry:          15,
			ForceMarch:       10,
			RoadCost:         0.5,
			ElevationPenalty: 1,
			RiverPenalty:     1,
		},
		Attack: AttackConfig{Range: 1},
		Scout: ScoutConfig{
			LOS:              3,
			Boost:            10,
			ReturnTurns:      1,
			StrengthFraction: 0.5,
		},
		Rest: RestConfig{Strength: -0.1, Duration: 1},
		Effects: EffectsConfig{
			ExhaustionSkill:      -1,
			ForceMarchExhaustion: 1,
			SurpriseThreshold:    7,
			SurpriseModifier:     3,
		},
		Vision: VisionConfig{
			Base:     3,
			Blocking: []Terrain{Woods, Hills},
		},
		Terrain: map[Terrain]float64{
			Plains: 1,
			Crops:  1,
			Woods:  2,
			Hills:  3,
			Swamps: 3,
		},
		CombatTable: StandardTable(),
	}
}

// LoadConfig reads a YAML rules file. Keys it omits keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Move.Infantry < 0 || c.Move.Cavalry < 0 || c.Move.ForceMarch < 0 {
		return fmt.Errorf("move ranges must not be negative")
	}
	if c.Move.ElevationPenalty < 0 || c.Move.RiverPenalty < 0 {
		return fmt.Errorf("movement penalties must not be negative")
	}
	if c.Move.RoadCost <= 0 {
		return fmt.Errorf("road cost must be positive, got %v", c.Move.RoadCost)
	}
	if c.Attack.Range < 1 {
		return fmt.Errorf("attack range must be at least 1, got %d", c.Attack.Range)
	}
	if c.Scout.StrengthFraction <= 0 || c.Scout.StrengthFraction > 1 {
		return fmt.Errorf("scout strength fraction must be in (0, 1], got %v", c.Scout.StrengthFraction)
	}
	if c.Scout.ReturnTurns < 1 {
		return fmt.Errorf("scouts must be out for at least one turn")
	}
	if c.Rest.Duration < 0 {
		return fmt.Errorf("rest duration must not be negative")
	}
	if c.Rest.Strength > 0 || c.Rest.Strength <= -1 {
		return fmt.Errorf("rest strength change must be in (-1, 0], got %v", c.Rest.Strength)
	}
	for _, t := range []Terrain{Plains, Woods, Hills, Crops, Swamps} {
		cost, ok := c.Terrain[t]
		if !ok {
			return fmt.Errorf("no movement cost for terrain %q", t)
		}
		if cost < c.Move.RoadCost {
			return fmt.Errorf("terrain %q costs %v, less than a road step", t, cost)
		}
	}
	for t := range c.Terrain {
		if !t.Valid() {
			return fmt.Errorf("unknown terrain %q", t)
		}
	}
	for _, t := range c.Vision.Blocking {
		if !t.Valid() {
			return fmt.Errorf("unknown blocking terrain %q", t)
		}
	}
	return c.CombatTable.Validate()
}
