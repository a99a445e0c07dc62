package game

import "napoleon/hexgrid"

// Team is one of the two factions.
type Team string

const (
	Blue Team = "blue"
	Red  Team = "red"
)

// Teams lists the factions in turn order. Blue plans first every round.
var Teams = []Team{Blue, Red}

func (t Team) Valid() bool {
	return t == Blue || t == Red
}

// Opponent returns the other faction.
func (t Team) Opponent() Team {
	if t == Blue {
		return Red
	}
	return Blue
}

type Terrain string

const (
	Plains Terrain = "plains"
	Woods  Terrain = "woods"
	Hills  Terrain = "hills"
	Crops  Terrain = "crops"
	Swamps Terrain = "swamps"
)

func (t Terrain) Valid() bool {
	switch t {
	case Plains, Woods, Hills, Crops, Swamps:
		return true
	}
	return false
}

type Feature string

const (
	NoFeature Feature = ""
	City      Feature = "city"
	Village   Feature = "village"
)

// Hex is one map cell. Units lists the ids standing on it; the first listed
// unit is the one that receives an attack moving into the hex.
type Hex struct {
	Coord   hexgrid.Coord `json:"coord"`
	Terrain Terrain       `json:"terrain"`
	Feature Feature       `json:"feature,omitempty"`
	Name    string        `json:"name,omitempty"`
	Road    bool          `json:"road,omitempty"`
	Height  int           `json:"height,omitempty"`
	Rivers  [6]bool       `json:"rivers"` // indexed by hexgrid direction
	Units   []string      `json:"units"`
}

type UnitKind string

const (
	Infantry UnitKind = "infantry"
	Cavalry  UnitKind = "cavalry"
)

// RestState tracks a unit standing down. Strength is what comes back when it ends.
type RestState struct {
	Active   bool `json:"active"`
	Until    int  `json:"until"`
	Strength int  `json:"strength"`
}

// Unit is a division, or a detachment split off from one.
type Unit struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Team             Team          `json:"team"`
	Kind             UnitKind      `json:"kind"`
	Position         hexgrid.Coord `json:"position"`
	Strength         int           `json:"strength"`
	FullStrength     int           `json:"fullStrength"`
	DetachedStrength int           `json:"detachedStrength"`
	Skill            int           `json:"skill"`
	Leader           string        `json:"leader,omitempty"`
	Horses           int           `json:"horses"`
	Guns             int           `json:"guns"`
	DivisionID       string        `json:"divisionId,omitempty"`
	ReturnTurn       int           `json:"returnTurn,omitempty"`
	Exhaustion       int           `json:"exhaustion"`
	Rest             RestState     `json:"rest"`
	LOSBoost         int           `json:"losBoost,omitempty"`
	Fortified        bool          `json:"fortified,omitempty"`
}

// EffectiveStrength is the strength still with the unit, excluding detachments in the field.
func (u Unit) EffectiveStrength() int {
	return max(0, u.Strength-u.DetachedStrength)
}

// IsDetachment reports whether the unit belongs to a parent division.
func (u Unit) IsDetachment() bool {
	return u.DivisionID != ""
}
