package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// renderGate bounds concurrent compositions and tracks them for the status
// endpoint.
type renderGate struct {
	sem chan struct{}

	active        atomic.Int32
	queued        atomic.Int32
	totalRendered atomic.Int64
	totalFailed   atomic.Int64
	current       sync.Map // session id -> start time
}

func newRenderGate(n int) *renderGate {
	return &renderGate{sem: make(chan struct{}, n)}
}

// Status is the composition load of the server.
type Status struct {
	Sessions int          `json:"sessions"`
	Render   RenderStatus `json:"render"`
}

// RenderStatus contains current render operation status.
type RenderStatus struct {
	ActiveRenders   int      `json:"active_renders"`
	QueuedRenders   int      `json:"queued_renders"`
	TotalRendered   int64    `json:"total_rendered"`
	TotalFailed     int64    `json:"total_failed"`
	MaxConcurrent   int      `json:"max_concurrent"`
	CurrentSessions []string `json:"current_sessions"`
}

// run waits for a render slot, then calls fn. It returns ctx.Err() if the
// request is cancelled while queued.
func (g *renderGate) run(ctx context.Context, key string, fn func() error) error {
	g.queued.Add(1)
	select {
	case g.sem <- struct{}{}:
		g.queued.Add(-1)
		defer func() { <-g.sem }()
	case <-ctx.Done():
		g.queued.Add(-1)
		return ctx.Err()
	}

	g.active.Add(1)
	g.current.Store(key, time.Now())
	err := fn()
	g.active.Add(-1)
	g.current.Delete(key)

	if err != nil {
		g.totalFailed.Add(1)
		return err
	}
	g.totalRendered.Add(1)
	return nil
}

func (g *renderGate) status() RenderStatus {
	current := []string{}
	g.current.Range(func(key, _ any) bool {
		current = append(current, key.(string))
		return true
	})
	sort.Strings(current)

	return RenderStatus{
		ActiveRenders:   int(g.active.Load()),
		QueuedRenders:   int(g.queued.Load()),
		TotalRendered:   g.totalRendered.Load(),
		TotalFailed:     g.totalFailed.Load(),
		MaxConcurrent:   cap(g.sem),
		CurrentSessions: current,
	}
}

// Status returns the current status of the server.
func (s *Server) Status() Status {
	return Status{
		Sessions: s.cfg.Sessions.Len(),
		Render:   s.renders.status(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, s.Status())
}

// handleStatusStream pushes Status as server-sent events.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, func() any { return s.Status() })
}

// handleSessionStream pushes the session snapshot whenever it changes.
func (s *Server) handleSessionStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.stream(w, r, func() any { return sess.Snapshot() })
}

// stream sends poll() every StreamInterval, skipping unchanged payloads.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, poll func() any) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	var last []byte
	send := func() {
		data, err := json.Marshal(poll())
		if err != nil {
			s.log().Error("failed to encode stream event", "error", err)
			return
		}
		if string(data) == string(last) {
			return
		}
		last = data
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	send()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			send()
		}
	}
}
