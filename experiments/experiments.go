package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"napoleon/engine"
	"napoleon/experiments/metrics"
	"napoleon/game"
	"napoleon/meta"
)

// Game is the result of one scripted run.
type Game struct {
	Seed     uint64
	Final    *game.State
	Rejected int
	Rounds   []metrics.RoundMetric
	Forces   []metrics.ForceMetric
}

// Run replays the script once per seed and writes the round and force
// records under dir. It returns the directory the records were written to.
func Run(s *game.State, cfg game.Config, script Script, dir string) (string, error) {
	name := script.Name
	if name == "" {
		name = "replay"
	}
	log.Info().Msgf("starting %s replay over %d runs...", name, script.Runs)

	roundRecords := []metrics.RoundRecord{}
	forceRecords := []metrics.ForceRecord{}
	for i, seed := range script.Seeds() {
		log.Info().Msgf("starting run %d of %d with seed %d...", i+1, script.Runs, seed)

		g := Play(s, cfg, script, seed)
		for _, rm := range g.Rounds {
			roundRecords = append(roundRecords, metrics.RoundRecord{Run: i, Seed: seed, RoundMetric: rm})
		}
		for _, fm := range g.Forces {
			forceRecords = append(forceRecords, metrics.ForceRecord{Run: i, ForceMetric: fm})
		}

		log.Info().Msgf("completed run %d of %d: %d blue / %d red units left, %d orders rejected",
			i+1, script.Runs, len(g.Final.UnitsOf(game.Blue)), len(g.Final.UnitsOf(game.Red)), g.Rejected)
	}
	log.Info().Msgf("completed %s replay", name)

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create replay writer: %w", err)
	}
	err = writer.WriteRoundRecords(roundRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write round records: %w", err)
	}
	log.Info().Msg("stored round records")

	err = writer.WriteForceRecords(forceRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write force records: %w", err)
	}
	log.Info().Msg("stored force records")
	return writer.Dir(), nil
}

// Play replays the script once. Orders the engine rejects are logged and
// skipped. A side with no scripted orders simply ends its turn.
func Play(s *game.State, cfg game.Config, script Script, seed uint64) Game {
	collector := metrics.NewCollector()
	e := engine.New(s, cfg, engine.WithSeed(seed), engine.WithMetrics(collector))

	rejected := 0
	for i, turn := range script.Turns {
		if i >= meta.MAX_TURNS {
			log.Warn().Msgf("script stopped at the %d turn limit", meta.MAX_TURNS)
			break
		}
		for _, team := range game.Teams {
			for _, spec := range turn[team] {
				order, err := spec.Build()
				if err == nil {
					err = e.Issue(spec.Unit, order)
				}
				if err != nil {
					rejected++
					log.Warn().Err(err).Msgf("turn %d: %s order for %s rejected", e.Turn(), spec.Order, spec.Unit)
				}
			}
			e.EndTurn(team)
		}
		for _, team := range game.Teams {
			for _, note := range e.Notifications(team) {
				log.Info().Msgf("[%s] %s", team, note)
			}
		}
		e.ClearNotifications()
	}

	return Game{
		Seed:     seed,
		Final:    e.State(),
		Rejected: rejected,
		Rounds:   collector.Rounds(),
		Forces:   collector.Forces(),
	}
}
