package metrics

import (
	"time"

	"napoleon/game"
)

type RoundMetric struct {
	Turn                int
	Duration            time.Duration
	Moves               int
	ForcedMarches       int
	Blocked             int
	Combats             int
	Avoided             int
	Retreats            int
	HeldPosition        int
	Eliminated          int
	DetachmentsReturned int
	RestsEnded          int
	Outcomes            map[game.Outcome]int
}

// ForceMetric is one team's order of battle after a round.
type ForceMetric struct {
	Turn      int
	Team      game.Team
	Units     int
	Strength  int
	Effective int
}

type Collector interface {
	Start(turn int)
	Complete(report game.Report, s *game.State)
	Rounds() []RoundMetric
	Forces() []ForceMetric
}

type collector struct {
	startTime time.Time
	turn      int
	rounds    []RoundMetric
	forces    []ForceMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(turn int) {
	m.startTime = time.Now()
	m.turn = turn
}

func (m *collector) Complete(report game.Report, s *game.State) {
	outcomes := make(map[game.Outcome]int, len(report.Outcomes))
	for k, v := range report.Outcomes {
		outcomes[k] = v
	}
	m.rounds = append(m.rounds, RoundMetric{
		Turn:                report.Turn,
		Duration:            time.Since(m.startTime),
		Moves:               report.Moves,
		ForcedMarches:       report.ForcedMarches,
		Blocked:             report.Blocked,
		Combats:             report.Combats,
		Avoided:             report.Avoided,
		Retreats:            report.Retreats,
		HeldPosition:        report.HeldPosition,
		Eliminated:          len(report.Eliminated),
		DetachmentsReturned: report.DetachmentsReturned,
		RestsEnded:          report.RestsEnded,
		Outcomes:            outcomes,
	})
	for _, team := range game.Teams {
		f := ForceMetric{Turn: report.Turn, Team: team}
		for _, u := range s.UnitsOf(team) {
			f.Units++
			f.Strength += u.Strength
			f.Effective += u.EffectiveStrength()
		}
		m.forces = append(m.forces, f)
	}
}

func (m *collector) Rounds() []RoundMetric {
	return append([]RoundMetric{}, m.rounds...)
}

func (m *collector) Forces() []ForceMetric {
	return append([]ForceMetric{}, m.forces...)
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(turn int)                             {}
func (m *dummyCollector) Complete(report game.Report, s *game.State) {}
func (m *dummyCollector) Rounds() []RoundMetric                      { return nil }
func (m *dummyCollector) Forces() []ForceMetric                      { return nil }
