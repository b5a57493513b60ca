// Package feed consumes the draft server's push stream and funnels validated
// events into the session inbox. It owns reconnection; event semantics
// (idempotent replay, monotonic index) make the overlap after a reconnect safe.
package feed

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Incarcer/FFA/internal/metrics"
	"github.com/Incarcer/FFA/internal/session"
)

const (
	baseReconnectDelay = 1 * time.Second
	maxReconnectDelay  = 30 * time.Second
)

var errBadMessage = errors.New("malformed push message")

type Stream struct {
	url         string
	inbox       chan<- session.Msg
	onReconnect func(context.Context) // re-sync hook, fired after a re-dial succeeds
	log         *zap.Logger
}

func New(url string, inbox chan<- session.Msg, onReconnect func(context.Context), log *zap.Logger) *Stream {
	return &Stream{url: url, inbox: inbox, onReconnect: onReconnect, log: log}
}

// Run dials the stream and reads until ctx ends, re-dialing with exponential
// backoff on any disconnect.
func (f *Stream) Run(ctx context.Context) {
	connects := 0
	fails := 0

	for {
		if ctx.Err() != nil {
			return
		}

		err := f.streamOnce(ctx, &connects, &fails)
		if ctx.Err() != nil {
			return
		}
		fails++
		f.log.Warn("push stream disconnected", zap.Error(err), zap.Int("failures", fails))

		delay := time.Duration(float64(baseReconnectDelay) * math.Pow(2, float64(min(fails-1, 5))))
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func (f *Stream) streamOnce(ctx context.Context, connects, fails *int) error {
	conn, _, err := websocket.Dial(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	*connects++
	if *connects > 1 {
		metrics.FeedReconnects.Inc()
		f.log.Info("push stream reconnected", zap.Int("connects", *connects))
		if f.onReconnect != nil {
			f.onReconnect(ctx)
		}
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}
		*fails = 0

		env, err := parseEnvelope(data)
		if err != nil {
			metrics.FeedDropped.Inc()
			f.log.Warn("push message dropped", zap.Error(err))
			continue
		}
		if env.Type == msgError {
			f.log.Warn("server reported error", zap.String("message", env.Message))
			continue
		}
		msg, err := env.sessionMsg()
		if err != nil {
			metrics.FeedDropped.Inc()
			f.log.Warn("push message dropped", zap.Error(err))
			continue
		}
		select {
		case f.inbox <- msg:
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "client closing")
			return ctx.Err()
		}
	}
}
