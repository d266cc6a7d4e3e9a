package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/artemis-health/artemis/internal/session"
	"github.com/gofiber/fiber/v2"
)

const (
	eventStreamBuffer    = 8
	eventStreamHeartbeat = 25 * time.Second
	eventStreamRetry     = 5 * time.Second
)

type streamEvent struct {
	Kind    session.EventKind `json:"kind"`
	At      time.Time         `json:"at"`
	Current bool              `json:"current"`
}

// Events streams identity changes of the signed-in user as server-sent
// events. The subscription is released when the client goes away, when the
// server shuts down, or once the caller's own session has ended.
func (handler *Handler) Events(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, errCodeUnauthorized)
	}
	userID := user.ID
	sessionID := currentSessionID(c)

	events := make(chan session.Event, eventStreamBuffer)
	unsubscribe := handler.sessions.Subscribe(func(event session.Event) {
		if event.UserID != userID {
			return
		}
		select {
		case events <- event:
		default:
			handler.log.WithField("user_id", userID).Warn("event stream is full, dropping event")
		}
	})

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := handler.baseContext
	logger := handler.requestLogger(c)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(eventStreamHeartbeat)
		defer ticker.Stop()

		if err := streamSessionEvents(ctx, w, events, ticker.C, sessionID); err != nil {
			logger.WithError(err).Debug("event stream closed")
		}
	})
	return nil
}

// streamSessionEvents writes events until ctx is done, a write fails, or the
// session identified by sessionID signs out or expires.
func streamSessionEvents(ctx context.Context, w *bufio.Writer, events <-chan session.Event, heartbeat <-chan time.Time, sessionID string) error {
	if _, err := fmt.Fprintf(w, "retry: %d\n\n", eventStreamRetry.Milliseconds()); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-heartbeat:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		case event := <-events:
			current := event.SessionID == sessionID
			if err := writeSessionEvent(w, event, current); err != nil {
				return err
			}
			if current && event.Kind != session.EventSignedIn {
				return nil
			}
		}
	}
}

func writeSessionEvent(w *bufio.Writer, event session.Event, current bool) error {
	payload, err := json.Marshal(streamEvent{Kind: event.Kind, At: event.At.UTC(), Current: current})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload); err != nil {
		return err
	}
	return w.Flush()
}
