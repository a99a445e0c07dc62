// Package mapdata reads scenario files into a starting game state.
//
// A scenario is a JSON document holding the grid size, sparse hex terrain keyed
// by "q,r", the order of battle and road paths. Hexes not listed are plains.
package mapdata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog/log"

	"napoleon/game"
	"napoleon/hexgrid"
)

type File struct {
	Name     string             `json:"name,omitempty" jsonschema:"description=Scenario title shown to players"`
	GridSize int                `json:"gridSize" jsonschema:"minimum=1,description=Columns and rows of a square map"`
	Width    int                `json:"width,omitempty" jsonschema:"minimum=1,description=Columns; overrides gridSize"`
	Height   int                `json:"height,omitempty" jsonschema:"minimum=1,description=Rows; overrides gridSize"`
	Hexes    map[string]HexSpec `json:"hexes,omitempty" jsonschema:"description=Hexes keyed by column and row joined with a comma. Missing hexes are plains"`
	Units    []UnitSpec         `json:"units" jsonschema:"required"`
	Features Features           `json:"features,omitempty"`
}

type HexSpec struct {
	Terrain game.Terrain `json:"terrain,omitempty" jsonschema:"enum=plains,enum=woods,enum=hills,enum=crops,enum=swamps"`
	Feature game.Feature `json:"feature,omitempty" jsonschema:"enum=city,enum=village"`
	Name    string       `json:"name,omitempty"`
	Road    bool         `json:"road,omitempty" jsonschema:"description=Draw a road through the hex even without a listed path"`
	Height  int          `json:"height,omitempty" jsonschema:"description=Elevation level"`
	Rivers  []string     `json:"rivers,omitempty" jsonschema:"description=Hex sides carrying a river: east southEast southWest west northWest northEast"`
}

type UnitSpec struct {
	ID       string        `json:"id" jsonschema:"required,minLength=1"`
	Name     string        `json:"name" jsonschema:"required"`
	Team     game.Team     `json:"team" jsonschema:"required,enum=blue,enum=red"`
	Kind     game.UnitKind `json:"kind,omitempty" jsonschema:"enum=infantry,enum=cavalry"`
	Position [2]int        `json:"position" jsonschema:"required"`
	Strength int           `json:"strength" jsonschema:"required,minimum=1"`
	Skill    int           `json:"skill"`
	Leader   string        `json:"leader,omitempty"`
	Horses   int           `json:"horses,omitempty" jsonschema:"minimum=0"`
	Guns     int           `json:"guns,omitempty" jsonschema:"minimum=0"`
}

type Features struct {
	Roads []RoadSpec `json:"roads,omitempty"`
}

// RoadSpec is a road as a chain of adjacent hexes.
type RoadSpec struct {
	Path [][2]int `json:"path" jsonschema:"required,minItems=2,description=Hexes the road passes through in order"`
}

var riverSides = map[string]int{
	"east":      hexgrid.East,
	"southEast": hexgrid.SouthEast,
	"southWest": hexgrid.SouthWest,
	"west":      hexgrid.West,
	"northWest": hexgrid.NorthWest,
	"northEast": hexgrid.NorthEast,
}

func LoadFile(path string, cfg game.Config) (*game.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()
	s, err := Load(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return s, nil
}

func Load(r io.Reader, cfg game.Config) (*game.State, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}
	return Build(file, cfg)
}

func ParseKey(key string) (hexgrid.Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return hexgrid.Coord{}, fmt.Errorf("hex key %q is not q,r", key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return hexgrid.Coord{}, fmt.Errorf("hex key %q: %w", key, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return hexgrid.Coord{}, fmt.Errorf("hex key %q: %w", key, err)
	}
	return hexgrid.Coord{Q: q, R: r}, nil
}

// Build expands a scenario into a turn 1 state with Blue to plan.
func Build(file File, cfg game.Config) (*game.State, error) {
	width, height := file.GridSize, file.GridSize
	if file.Width > 0 {
		width = file.Width
	}
	if file.Height > 0 {
		height = file.Height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("map needs a positive size, got %dx%d", width, height)
	}

	s := game.NewState(width, height, cfg)
	grid := s.Grid()

	for key, spec := range file.Hexes {
		c, err := ParseKey(key)
		if err != nil {
			return nil, err
		}
		h := s.HexAt(c)
		if h == nil {
			return nil, fmt.Errorf("hex %v lies outside the %dx%d map", c, width, height)
		}
		if spec.Terrain != "" {
			if !spec.Terrain.Valid() {
				return nil, fmt.Errorf("hex %v: unknown terrain %q", c, spec.Terrain)
			}
			h.Terrain = spec.Terrain
		}
		h.Feature = spec.Feature
		h.Name = spec.Name
		h.Road = spec.Road
		h.Height = spec.Height
		for _, side := range spec.Rivers {
			dir, ok := riverSides[side]
			if !ok {
				return nil, fmt.Errorf("hex %v: unknown river side %q", c, side)
			}
			h.Rivers[dir] = true
		}
	}

	for i, road := range file.Features.Roads {
		for j := 1; j < len(road.Path); j++ {
			from := hexgrid.Coord{Q: road.Path[j-1][0], R: road.Path[j-1][1]}
			to := hexgrid.Coord{Q: road.Path[j][0], R: road.Path[j][1]}
			if !grid.Contains(from) || !grid.Contains(to) {
				return nil, fmt.Errorf("road %d: %v-%v leaves the map", i, from, to)
			}
			if hexgrid.Distance(from, to) != 1 {
				return nil, fmt.Errorf("road %d: %v-%v joins hexes that are not adjacent", i, from, to)
			}
			addRoad(s, from, to)
			addRoad(s, to, from)
		}
	}

	seen := map[string]bool{}
	for _, spec := range file.Units {
		if spec.ID == "" {
			return nil, fmt.Errorf("unit %q has no id", spec.Name)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("duplicate unit id %s", spec.ID)
		}
		seen[spec.ID] = true
		if !spec.Team.Valid() {
			return nil, fmt.Errorf("unit %s: unknown team %q", spec.ID, spec.Team)
		}
		kind := spec.Kind
		if kind == "" {
			kind = game.Infantry
		}
		if kind != game.Infantry && kind != game.Cavalry {
			return nil, fmt.Errorf("unit %s: unknown kind %q", spec.ID, kind)
		}
		if spec.Strength <= 0 {
			return nil, fmt.Errorf("unit %s: strength must be positive", spec.ID)
		}
		pos := hexgrid.Coord{Q: spec.Position[0], R: spec.Position[1]}
		if !grid.Contains(pos) {
			return nil, fmt.Errorf("unit %s stands off the map at %v", spec.ID, pos)
		}
		s.Units = append(s.Units, game.Unit{
			ID:           spec.ID,
			Name:         spec.Name,
			Team:         spec.Team,
			Kind:         kind,
			Position:     pos,
			Strength:     spec.Strength,
			FullStrength: spec.Strength,
			Skill:        spec.Skill,
			Leader:       spec.Leader,
			Horses:       spec.Horses,
			Guns:         spec.Guns,
		})
	}
	s.RebuildHexes()

	log.Info().Msgf("loaded map %q: %dx%d, %d units, %d road hexes", file.Name, width, height, len(s.Units), len(s.Roads))
	return s, nil
}

func addRoad(s *game.State, from, to hexgrid.Coord) {
	for _, c := range s.Roads[from] {
		if c == to {
			return
		}
	}
	s.Roads[from] = append(s.Roads[from], to)
	s.HexAt(from).Road = true
}

// Schema describes the scenario file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(File))
	schema.Title = "Napoleon Scenario Map"
	schema.Description = "Terrain, roads and order of battle for one scenario"
	return schema
}
