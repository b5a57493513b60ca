package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Incarcer/FFA/internal/draft"
)

// helper: receive one view with a timeout so tests never hang
func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("observer outbox closed unexpectedly")
		}
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func recvNoView(t *testing.T, ch <-chan View, within time.Duration) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			return
		}
		t.Fatalf("expected no view within %v, but got version %d", within, v.Version)
	case <-time.After(within):
		// good: no broadcast
	}
}

func testSnapshot() draft.Snapshot {
	return draft.Snapshot{
		Board: []draft.Pick{
			{PickNumber: 1, Round: 1, RoundPick: 1, TeamID: "T1"},
			{PickNumber: 2, Round: 1, RoundPick: 2, TeamID: "T2"},
			{PickNumber: 3, Round: 2, RoundPick: 1, TeamID: "T2"},
		},
		Teams: map[string]*draft.Team{
			"T1": {TeamID: "T1", TeamName: "Alpha"},
			"T2": {TeamID: "T2", TeamName: "Bravo"},
		},
		AvailablePlayers: []draft.Player{
			{PlayerID: "p1", PlayerName: "Quarterback One", Position: "QB"},
			{PlayerID: "p2", PlayerName: "Runner Two", Position: "RB"},
			{PlayerID: "p3", PlayerName: "Receiver Three", Position: "WR"},
		},
		TotalPicks: 3,
	}
}

func newTestSession(t *testing.T, fetch HistoryFetcher) (*Session, chan View) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := New(ctx, draft.NewEmptyState(), fetch, zap.NewNop())
	out := make(chan View, 8)
	s.Inbox() <- Join{ObserverID: NewObserverID(), Outbox: out}
	first := recvView(t, out, 100*time.Millisecond)
	if first.State.Status != draft.StatusIdle {
		t.Fatalf("want idle on join, got %v", first.State.Status)
	}
	return s, out
}

func loadSession(t *testing.T, s *Session, out chan View) View {
	t.Helper()
	s.Inbox() <- LoadRequested{}
	v := recvView(t, out, 100*time.Millisecond)
	if v.State.Status != draft.StatusLoading {
		t.Fatalf("want loading, got %v", v.State.Status)
	}
	s.Inbox() <- SnapshotLoaded{Snapshot: testSnapshot()}
	v = recvView(t, out, 100*time.Millisecond)
	if v.State.Status != draft.StatusSucceeded {
		t.Fatalf("want succeeded, got %v (error %q)", v.State.Status, v.State.LoadError)
	}
	return v
}

func TestSession_LoadFlow(t *testing.T) {
	s, out := newTestSession(t, nil)
	v := loadSession(t, s, out)

	if len(v.State.Available) != 3 || v.State.TotalPicks != 3 {
		t.Fatalf("snapshot not installed: %+v", v.State)
	}
	if v.State.CurrentPickIndex != 0 {
		t.Fatalf("want index 0 after load, got %d", v.State.CurrentPickIndex)
	}
}

func TestSession_PickBroadcastsAndVersionIncrements(t *testing.T) {
	s, out := newTestSession(t, nil)
	v := loadSession(t, s, out)
	loadedVersion := v.Version

	s.Inbox() <- PickMade{Event: draft.PickEvent{
		PickNumber: 1,
		Player:     draft.Player{PlayerID: "p1", PlayerName: "Quarterback One", Position: "QB"},
	}}
	next := recvView(t, out, 100*time.Millisecond)
	if next.Version != loadedVersion+1 {
		t.Fatalf("want version %d, got %d", loadedVersion+1, next.Version)
	}
	if next.State.Board[0].Player == nil || next.State.Board[0].Player.PlayerID != "p1" {
		t.Fatalf("pick not applied: %+v", next.State.Board[0])
	}
	if next.State.CurrentPickIndex != 1 {
		t.Fatalf("want index 1, got %d", next.State.CurrentPickIndex)
	}
}

func TestSession_DuplicatePickDoesNotBroadcast(t *testing.T) {
	s, out := newTestSession(t, nil)
	loadSession(t, s, out)

	ev := PickMade{Event: draft.PickEvent{
		PickNumber: 1,
		Player:     draft.Player{PlayerID: "p1", PlayerName: "Quarterback One", Position: "QB"},
	}}
	s.Inbox() <- ev
	_ = recvView(t, out, 100*time.Millisecond)

	s.Inbox() <- ev
	recvNoView(t, out, 150*time.Millisecond)
}

func TestSession_LoadFailureAndRetry(t *testing.T) {
	s, out := newTestSession(t, nil)

	s.Inbox() <- LoadRequested{}
	_ = recvView(t, out, 100*time.Millisecond)
	s.Inbox() <- LoadFailed{Err: errors.New("connection refused")}

	v := recvView(t, out, 100*time.Millisecond)
	if v.State.Status != draft.StatusFailed || v.State.LoadError == "" {
		t.Fatalf("want failed with message, got %v %q", v.State.Status, v.State.LoadError)
	}

	// failed -> loading is a legal re-entry
	loadSession(t, s, out)
}

func TestSession_ResyncFailureKeepsLoadedState(t *testing.T) {
	s, out := newTestSession(t, nil)
	loadSession(t, s, out)

	s.Inbox() <- LoadFailed{Err: errors.New("re-sync blew up")}
	recvNoView(t, out, 150*time.Millisecond)

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	v := recvView(t, reply, 100*time.Millisecond)
	if v.State.Status != draft.StatusSucceeded {
		t.Fatalf("re-sync failure regressed status to %v", v.State.Status)
	}
}

func TestSession_SnapshotCatchUpReplaysPicks(t *testing.T) {
	s, out := newTestSession(t, nil)
	loadSession(t, s, out)

	snap := testSnapshot()
	p1 := draft.Player{PlayerID: "p1", PlayerName: "Quarterback One", Position: "QB"}
	snap.Board[0].Player = &p1
	snap.AvailablePlayers = snap.AvailablePlayers[1:]

	s.Inbox() <- SnapshotLoaded{Snapshot: snap}
	v := recvView(t, out, 100*time.Millisecond)
	if v.State.Board[0].Player == nil {
		t.Fatalf("catch-up did not apply the snapshot's pick")
	}
	if len(v.State.Available) != 2 {
		t.Fatalf("want pool of 2 after catch-up, got %d", len(v.State.Available))
	}

	// Re-delivering the same snapshot is a pure replay: no broadcast.
	s.Inbox() <- SnapshotLoaded{Snapshot: snap}
	recvNoView(t, out, 150*time.Millisecond)
}

func TestSession_SelectionSeedsAndAttachesHistory(t *testing.T) {
	unblock := make(chan draft.History, 1)
	fetch := func(ctx context.Context, playerID string) (draft.History, error) {
		select {
		case h := <-unblock:
			return h, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s, out := newTestSession(t, fetch)
	loadSession(t, s, out)

	s.Inbox() <- Select{PlayerID: "p2"}
	v := recvView(t, out, 100*time.Millisecond)
	sel := v.State.Selected
	if sel == nil || sel.Player.PlayerID != "p2" || !sel.Loading {
		t.Fatalf("selection not seeded: %+v", sel)
	}

	unblock <- draft.History(`{"season":2024,"total_points":250.5}`)
	v = recvView(t, out, 200*time.Millisecond)
	sel = v.State.Selected
	if sel == nil || sel.Loading || string(sel.History) != `{"season":2024,"total_points":250.5}` {
		t.Fatalf("history not attached: %+v", sel)
	}
}

func TestSession_StaleHistoryDoesNotOverwriteNewerSelection(t *testing.T) {
	unblock := map[string]chan draft.History{
		"p1": make(chan draft.History, 1),
		"p2": make(chan draft.History, 1),
	}
	fetch := func(ctx context.Context, playerID string) (draft.History, error) {
		select {
		case h := <-unblock[playerID]:
			return h, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s, out := newTestSession(t, fetch)
	loadSession(t, s, out)

	s.Inbox() <- Select{PlayerID: "p1"}
	_ = recvView(t, out, 100*time.Millisecond)
	s.Inbox() <- Select{PlayerID: "p2"}
	_ = recvView(t, out, 100*time.Millisecond)

	// p1's slow fetch resolves after p2 took over: result must be discarded.
	unblock["p1"] <- draft.History(`{"player":"p1"}`)
	recvNoView(t, out, 150*time.Millisecond)

	unblock["p2"] <- draft.History(`{"player":"p2"}`)
	v := recvView(t, out, 200*time.Millisecond)
	sel := v.State.Selected
	if sel == nil || sel.Player.PlayerID != "p2" || string(sel.History) != `{"player":"p2"}` {
		t.Fatalf("newer selection overwritten: %+v", sel)
	}
}

func TestSession_HistoryFetchFailurePreservesPartialInfo(t *testing.T) {
	fetch := func(ctx context.Context, playerID string) (draft.History, error) {
		return nil, errors.New("stats backend unavailable")
	}
	s, out := newTestSession(t, fetch)
	loadSession(t, s, out)

	s.Inbox() <- Select{PlayerID: "p2"}
	_ = recvView(t, out, 100*time.Millisecond)

	v := recvView(t, out, 200*time.Millisecond)
	sel := v.State.Selected
	if sel == nil || sel.Loading || sel.Err == "" || sel.History != nil {
		t.Fatalf("want failed detail with partial player kept, got %+v", sel)
	}
	if sel.Player.PlayerID != "p2" {
		t.Fatalf("partial player info lost: %+v", sel)
	}
	if v.State.Status != draft.StatusSucceeded {
		t.Fatalf("detail failure leaked into session status: %v", v.State.Status)
	}
}

func TestSession_ClearSelectionInvalidatesInFlightFetch(t *testing.T) {
	unblock := make(chan draft.History, 1)
	fetch := func(ctx context.Context, playerID string) (draft.History, error) {
		select {
		case h := <-unblock:
			return h, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s, out := newTestSession(t, fetch)
	loadSession(t, s, out)

	s.Inbox() <- Select{PlayerID: "p3"}
	_ = recvView(t, out, 100*time.Millisecond)
	s.Inbox() <- ClearSelection{}
	v := recvView(t, out, 100*time.Millisecond)
	if v.State.Selected != nil {
		t.Fatalf("selection not cleared: %+v", v.State.Selected)
	}

	unblock <- draft.History(`{"player":"p3"}`)
	recvNoView(t, out, 150*time.Millisecond)
}

func TestSession_DropSlowObserver(t *testing.T) {
	s, _ := newTestSession(t, nil)

	slow := make(chan View, 1)
	s.Inbox() <- Join{ObserverID: "slow", Outbox: slow}
	// Buffer now holds the join view; the next broadcast cannot be delivered.
	s.Inbox() <- RecommendationsUpdated{Recommendations: []draft.Recommendation{{Score: 1}}}

	reply := make(chan View, 1)
	s.Inbox() <- GetView{Reply: reply}
	v := recvView(t, reply, 100*time.Millisecond)
	if v.NumObservers != 1 { // the fast observer from newTestSession survives
		t.Fatalf("expected slow observer to be dropped; NumObservers=%d", v.NumObservers)
	}
}
