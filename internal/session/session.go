package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Incarcer/FFA/internal/draft"
	"github.com/Incarcer/FFA/internal/metrics"
)

type Msg interface{ isSessionMsg() }

// LoadRequested marks the start of a snapshot fetch (idle/failed -> loading).
type LoadRequested struct{}

func (LoadRequested) isSessionMsg() {}

// SnapshotLoaded delivers a successful bulk fetch. On a fresh session the
// snapshot installs wholesale; on an already-loaded session its filled slots
// replay through the reconciler as catch-up.
type SnapshotLoaded struct {
	Snapshot draft.Snapshot
}

func (SnapshotLoaded) isSessionMsg() {}

type LoadFailed struct {
	Err error
}

func (LoadFailed) isSessionMsg() {}

// PickMade delivers one pick event, from the push stream or from catch-up.
type PickMade struct {
	Event draft.PickEvent
}

func (PickMade) isSessionMsg() {}

type RecommendationsUpdated struct {
	Recommendations []draft.Recommendation
}

func (RecommendationsUpdated) isSessionMsg() {}

// Select begins inspecting a player: the detail slot is seeded from whatever
// record we hold and the history fetch starts in the background.
type Select struct {
	PlayerID string
}

func (Select) isSessionMsg() {}

type ClearSelection struct{}

func (ClearSelection) isSessionMsg() {}

// historyResult re-enters the loop from a fetch goroutine. The generation it
// carries decides whether the result still belongs to the current selection.
type historyResult struct {
	gen      uint64
	playerID string
	history  draft.History
	err      error
}

func (historyResult) isSessionMsg() {}

type Join struct {
	ObserverID string
	Outbox     chan View // where this observer wants to receive views
}

func (Join) isSessionMsg() {}

type Leave struct {
	ObserverID string
}

func (Leave) isSessionMsg() {}

// GetView reflects internal state without data races (used by handlers and tests).
type GetView struct {
	Reply chan View
}

func (GetView) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// View is the read-only projection broadcast to observers.
type View struct {
	Version      int
	NumObservers int
	State        draft.State
}

// HistoryFetcher fetches a selected player's extended history.
type HistoryFetcher func(ctx context.Context, playerID string) (draft.History, error)

// Session owns the draft state for one session. All mutation funnels through
// the inbox and happens on the loop goroutine; no locks.
type Session struct {
	inbox        chan Msg
	state        draft.State
	version      int
	selectGen    uint64
	observers    map[string]chan View
	fetchHistory HistoryFetcher
	log          *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
}

func New(parent context.Context, initial draft.State, fetch HistoryFetcher, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:        make(chan Msg, 64),
		state:        initial,
		observers:    make(map[string]chan View),
		fetchHistory: fetch,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

// NewObserverID returns a fresh id for Join.
func NewObserverID() string { return uuid.NewString() }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.observers[msg.ObserverID] = msg.Outbox
				msg.Outbox <- s.view()

			case Leave:
				delete(s.observers, msg.ObserverID)

			case LoadRequested:
				s.handleLoadRequested()

			case SnapshotLoaded:
				s.handleSnapshotLoaded(msg.Snapshot)

			case LoadFailed:
				s.handleLoadFailed(msg.Err)

			case PickMade:
				if s.applyPick(msg.Event) {
					s.bump()
				}

			case RecommendationsUpdated:
				s.state.Recommendations = msg.Recommendations
				s.bump()

			case Select:
				s.handleSelect(msg.PlayerID)

			case ClearSelection:
				s.selectGen++
				if s.state.Selected != nil {
					s.state.Selected = nil
					s.bump()
				}

			case historyResult:
				s.handleHistoryResult(msg)

			case GetView:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleLoadRequested() {
	if s.state.Status != draft.StatusIdle && s.state.Status != draft.StatusFailed {
		s.log.Debug("load requested while not idle/failed", zap.String("status", string(s.state.Status)))
		return
	}
	s.state.Status = draft.StatusLoading
	s.bump()
}

func (s *Session) handleSnapshotLoaded(snap draft.Snapshot) {
	if s.state.Status == draft.StatusSucceeded {
		// Re-sync after reconnect: replay the snapshot's picks through the
		// reconciler; duplicates are no-ops.
		changed := false
		for _, ev := range draft.CatchUpEvents(snap) {
			if s.applyPick(ev) {
				changed = true
			}
		}
		metrics.SnapshotLoads.WithLabelValues("catchup").Inc()
		if changed {
			s.bump()
		}
		return
	}

	newState, err := draft.ApplySnapshot(s.state, snap)
	if err != nil {
		s.log.Error("snapshot rejected", zap.Error(err))
		s.handleLoadFailed(err)
		return
	}
	s.state = newState
	metrics.SnapshotLoads.WithLabelValues("success").Inc()
	s.log.Info("snapshot installed",
		zap.Int("total_picks", newState.TotalPicks),
		zap.Int("teams", len(newState.Teams)),
		zap.Int("available", len(newState.Available)))
	s.bump()
}

func (s *Session) handleLoadFailed(err error) {
	if s.state.Status == draft.StatusSucceeded {
		// A failed re-sync never regresses a loaded session.
		s.log.Warn("re-sync failed, keeping loaded state", zap.Error(err))
		return
	}
	s.state.Status = draft.StatusFailed
	s.state.LoadError = err.Error()
	metrics.SnapshotLoads.WithLabelValues("failure").Inc()
	s.bump()
}

// applyPick runs one event through the reconciler and reports whether the
// visible state changed. Rejected and duplicate events leave state untouched.
func (s *Session) applyPick(ev draft.PickEvent) bool {
	events, newState, err := draft.ApplyPick(s.state, ev)
	if err != nil {
		reason := "invalid"
		switch {
		case errors.Is(err, draft.ErrNotLoaded):
			reason = "not_loaded"
		case errors.Is(err, draft.ErrUnknownPickNumber):
			reason = "unknown_pick"
		}
		metrics.PicksRejected.WithLabelValues(reason).Inc()
		s.log.Warn("pick rejected", zap.Int("pick_number", ev.PickNumber), zap.String("player_id", ev.Player.PlayerID), zap.Error(err))
		return false
	}
	s.state = newState

	if draft.ContainsEvent(events, draft.EvtPickDuplicate) {
		metrics.PicksDuplicate.Inc()
		return false
	}
	metrics.PicksApplied.Inc()
	if draft.ContainsEvent(events, draft.EvtUnknownTeam) {
		metrics.PicksRejected.WithLabelValues("unknown_team").Inc()
		s.log.Warn("pick applied without roster update: unknown team",
			zap.Int("pick_number", ev.PickNumber), zap.String("player_id", ev.Player.PlayerID))
	}
	return true
}

func (s *Session) handleSelect(playerID string) {
	player, ok := s.state.FindPlayer(playerID)
	if !ok {
		s.log.Warn("selection of unknown player ignored", zap.String("player_id", playerID))
		return
	}
	s.selectGen++
	s.state.Selected = &draft.SelectedPlayerDetail{Player: player, Loading: s.fetchHistory != nil}
	s.bump()

	if s.fetchHistory == nil {
		return
	}
	gen := s.selectGen
	go func() {
		history, err := s.fetchHistory(s.ctx, playerID)
		select {
		case s.inbox <- historyResult{gen: gen, playerID: playerID, history: history, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handleHistoryResult(msg historyResult) {
	sel := s.state.Selected
	if msg.gen != s.selectGen || sel == nil || sel.Player.PlayerID != msg.playerID {
		// A newer Select or ClearSelection superseded this fetch.
		metrics.HistoryFetches.WithLabelValues("stale").Inc()
		return
	}
	sel.Loading = false
	if msg.err != nil {
		sel.Err = msg.err.Error()
		metrics.HistoryFetches.WithLabelValues("error").Inc()
		s.log.Warn("history fetch failed", zap.String("player_id", msg.playerID), zap.Error(msg.err))
	} else {
		sel.History = msg.history
		metrics.HistoryFetches.WithLabelValues("success").Inc()
	}
	s.bump()
}

func (s *Session) view() View {
	return View{Version: s.version, NumObservers: len(s.observers), State: s.state.Clone()}
}

// bump records a visible mutation: version increments and every observer gets
// the new view. Slow observers are dropped rather than blocking the loop.
func (s *Session) bump() {
	s.version++
	v := s.view()
	for id, ch := range s.observers {
		select {
		case ch <- v:
		default:
			close(ch)
			delete(s.observers, id)
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.observers {
		close(ch)
		delete(s.observers, id)
	}
	s.cancel()
}
