package api

import (
	"context"

	"github.com/Incarcer/FFA/internal/session"
)

// LoadSnapshot runs one snapshot-load attempt against the session: marks the
// load started, fetches, and posts the outcome. The session decides what the
// result means (initial install, catch-up replay, or failure).
func LoadSnapshot(ctx context.Context, c *Client, inbox chan<- session.Msg) {
	post(ctx, inbox, session.LoadRequested{})

	snap, err := c.FetchSnapshot(ctx)
	if err != nil {
		post(ctx, inbox, session.LoadFailed{Err: err})
		return
	}
	post(ctx, inbox, session.SnapshotLoaded{Snapshot: snap})
}

func post(ctx context.Context, inbox chan<- session.Msg, m session.Msg) {
	select {
	case inbox <- m:
	case <-ctx.Done():
	}
}
