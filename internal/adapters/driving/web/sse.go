package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// handleSearchProgress streams a session's progress events as
// server-sent events. The stream carries only events published after the
// subscription is attached; earlier events are not replayed. It ends
// when the session is torn down (a close event is the last frame) or
// when the client disconnects.
func (s *Server) handleSearchProgress(c echo.Context) error {
	searchID := c.Param("searchId")

	events, cancel, err := s.search.Subscribe(searchID)
	if err != nil {
		return fail(c, err)
	}
	defer cancel()

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set(echo.HeaderCacheControl, "no-cache")
	h.Set(echo.HeaderConnection, "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	s.logger.Info("sse subscriber attached", zap.String("search_id", searchID))

	// Confirm the subscription before any search events flow.
	connected := domain.NewEvent(domain.EventConnected, "Connected to search progress stream", map[string]any{
		"searchId": searchID,
	})
	if err := writeEvent(c.Response(), connected); err != nil {
		return err
	}

	clientGone := c.Request().Context().Done()
	for {
		select {
		case <-clientGone:
			s.logger.Info("sse subscriber disconnected", zap.String("search_id", searchID))
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(c.Response(), ev); err != nil {
				return err
			}
			if ev.Kind == domain.EventClose {
				return nil
			}
		}
	}
}

// writeEvent encodes one event as an SSE data frame and flushes it.
func writeEvent(w *echo.Response, ev domain.ProgressEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
