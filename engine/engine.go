// Package engine runs a hotseat game: it owns the state, checks who may act,
// and resolves the round once both sides have planned.
package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"napoleon/experiments/metrics"
	"napoleon/game"
	"napoleon/hexgrid"
	"napoleon/meta"
)

// Update is what one resolved round produced.
type Update struct {
	Turn          int
	Notifications game.Notifications
	Report        game.Report
	State         *game.State
}

type Option func(e *Engine)

func WithSource(source game.Source) Option {
	return func(e *Engine) {
		if source != nil {
			e.source = source
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.source = game.NewSource(seed)
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

type Engine struct {
	state   *game.State
	config  game.Config
	source  game.Source
	metrics metrics.Collector
	updates []Update
}

// New takes a copy of s and plays it under cfg. It panics if the hexes and
// unit positions of s disagree.
func New(s *game.State, cfg game.Config, options ...Option) *Engine {
	cfg = cfg.Copy()
	state := s.Snapshot()
	state.Config = cfg
	if state.Turn < 1 {
		state.Turn = 1
	}
	if !state.CurrentPlayer.Valid() {
		state.CurrentPlayer = game.Teams[0]
	}
	if state.Orders == nil {
		state.ResetOrders()
	}
	if state.Notifications == nil {
		state.Notifications = game.NewNotifications()
	}
	if err := state.CheckConsistency(); err != nil {
		panic(fmt.Sprintf("inconsistent starting state: %v", err))
	}

	e := &Engine{ // Default values
		state:   state,
		config:  cfg,
		source:  game.NewSource(meta.DEFAULT_SEED),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Issue stores an order for a unit of the current player.
func (e *Engine) Issue(unitID string, order game.Order) error {
	u := e.state.Unit(unitID)
	if u == nil {
		return fmt.Errorf("%w: %s", game.ErrUnknownUnit, unitID)
	}
	if u.Team != e.state.CurrentPlayer {
		return fmt.Errorf("%w: %s belongs to %s, %s is planning", game.ErrNotYourTurn, u.Name, u.Team, e.state.CurrentPlayer)
	}
	if existing, ok := e.state.Orders[u.Team][unitID]; ok && existing != nil {
		return fmt.Errorf("%w: %s is already under %s orders", game.ErrAlreadyOrdered, u.Name, existing.Kind())
	}
	if order == nil {
		return fmt.Errorf("%w: no order given", game.ErrInvalidOrder)
	}
	if err := order.Validate(e.state, unitID, e.config); err != nil {
		return err
	}
	order.Apply(e.state, unitID, e.config)
	log.Debug().Msgf("turn %d: %s ordered to %s", e.state.Turn, unitID, order.Kind())
	return nil
}

// IssueOrder is Issue reporting only success.
func (e *Engine) IssueOrder(unitID string, order game.Order) bool {
	if err := e.Issue(unitID, order); err != nil {
		log.Debug().Err(err).Msgf("order for %s rejected", unitID)
		return false
	}
	return true
}

// SelectUnit marks a unit of the current player as selected with no order
// yet. Selection never blocks a later order.
func (e *Engine) SelectUnit(unitID string) bool {
	u := e.state.Unit(unitID)
	if u == nil || u.Team != e.state.CurrentPlayer {
		return false
	}
	if _, ok := e.state.Orders[u.Team][unitID]; ok {
		return false
	}
	e.state.Orders[u.Team][unitID] = nil
	return true
}

// Deselect drops the current player's selections that never became orders.
func (e *Engine) Deselect() {
	orders := e.state.Orders[e.state.CurrentPlayer]
	for id, o := range orders {
		if o == nil {
			delete(orders, id)
		}
	}
}

// EndTurn hands planning to the other side. When the last side ends its turn
// the round is resolved and the turn advances.
func (e *Engine) EndTurn(player game.Team) bool {
	if player != e.state.CurrentPlayer {
		log.Debug().Msgf("%s cannot end the turn, %s is planning", player, e.state.CurrentPlayer)
		return false
	}
	if player != game.Teams[len(game.Teams)-1] {
		e.state.CurrentPlayer = player.Opponent()
		return true
	}
	e.resolve()
	return true
}

func (e *Engine) resolve() {
	turn := e.state.Turn
	e.metrics.Start(turn)

	next, notes, report := game.Resolve(e.state, game.Env{Config: e.config, Source: e.source})
	e.metrics.Complete(report, next)
	e.state = next
	e.updates = append(e.updates, Update{
		Turn:          turn,
		Notifications: notes.Copy(),
		Report:        report,
		State:         next.Snapshot(),
	})

	log.Info().Msgf("turn %d resolved: %d combats, %d eliminated, %d blue / %d red units left",
		turn, report.Combats, len(report.Eliminated), len(next.UnitsOf(game.Blue)), len(next.UnitsOf(game.Red)))
}

// State returns a deep copy of the current state, rules included.
func (e *Engine) State() *game.State {
	return e.state.Snapshot()
}

func (e *Engine) Turn() int {
	return e.state.Turn
}

func (e *Engine) CurrentPlayer() game.Team {
	return e.state.CurrentPlayer
}

// Notifications returns the messages of the last round for one team.
func (e *Engine) Notifications(team game.Team) []string {
	return append([]string{}, e.state.Notifications[team]...)
}

func (e *Engine) ClearNotifications() {
	e.state.Notifications = game.NewNotifications()
}

// Updates lists every resolved round, oldest first.
func (e *Engine) Updates() []Update {
	return append([]Update{}, e.updates...)
}

func (e *Engine) Metrics() metrics.Collector {
	return e.metrics
}

// Visible returns the hexes a team can currently see.
func (e *Engine) Visible(team game.Team) map[hexgrid.Coord]bool {
	return game.Visible(e.state, team)
}

// PlanPath previews the cheapest route for a unit, bounded by its move range.
func (e *Engine) PlanPath(unitID string, dest hexgrid.Coord, forceMarch bool) ([]hexgrid.Coord, float64, error) {
	u := e.state.Unit(unitID)
	if u == nil {
		return nil, 0, fmt.Errorf("%w: %s", game.ErrUnknownUnit, unitID)
	}
	path, cost := game.PlanPath(e.state, *u, dest, forceMarch)
	if path == nil {
		return nil, cost, fmt.Errorf("%w: no route for %s to %v within range", game.ErrInvalidOrder, u.Name, dest)
	}
	return path, cost, nil
}
