package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MeKo-Tech/photoframer/internal/composite"
	"github.com/MeKo-Tech/photoframer/internal/filter"
	"github.com/MeKo-Tech/photoframer/internal/room"
	"github.com/MeKo-Tech/photoframer/internal/state"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/MeKo-Tech/photoframer/internal/transform"
	"github.com/MeKo-Tech/photoframer/internal/types"
	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	ID    string         `json:"id"`
	State state.Snapshot `json:"state"`
}

type filterResponse struct {
	Adjustments types.Adjustments `json:"adjustments"`
	Filter      filter.Descriptor `json:"filter"`
	CSS         string            `json:"css"`
}

type composeResponse struct {
	PrintImage   string `json:"printImage"`
	PreviewImage string `json:"previewImage"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.Create()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID(), State: sess.Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID(), State: sess.Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.cfg.Sessions.Delete(sessionFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeState(w http.ResponseWriter, sess *studio.Session) {
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleUpload takes the raw image as the request body. With ?async=1 it
// answers 202 as soon as the bytes are accepted and decodes in the background.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	if r.URL.Query().Get("async") == "1" {
		if _, err := sess.Upload(context.Background(), data); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := sess.UploadAndWait(r.Context(), data); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) handleFrameSize(w http.ResponseWriter, r *http.Request) {
	var fs types.FrameSize
	if !decode(w, r, &fs) {
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetFrameSize(fs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) handleFrameColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color string `json:"color"`
	}
	if !decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetFrameColor(req.Color); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) handleFrameTexture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texture string `json:"texture"`
	}
	if !decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetFrameTexture(req.Texture); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeState(w, sess)
}

func (s *Server) handleAdjustments(w http.ResponseWriter, r *http.Request) {
	adj := types.DefaultAdjustments()
	if !decode(w, r, &adj) {
		return
	}
	sess := sessionFrom(r)
	d := sess.SetAdjustments(adj)
	writeJSON(w, http.StatusOK, filterResponse{Adjustments: sess.Snapshot().Adjustments, Filter: d, CSS: d.CSS()})
}

func (s *Server) handleAdjustment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value int `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	d, err := sess.SetAdjustment(chi.URLParam(r, "name"), req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, filterResponse{Adjustments: sess.Snapshot().Adjustments, Filter: d, CSS: d.CSS()})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	d := sess.Filter()
	writeJSON(w, http.StatusOK, filterResponse{Adjustments: sess.Snapshot().Adjustments, Filter: d, CSS: d.CSS()})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var v types.Viewport
	if !decode(w, r, &v) {
		return
	}
	sess := sessionFrom(r)
	if err := sess.SetViewport(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeState(w, sess)
}

// handleGeometry records the measured frame layout. A null body clears it.
func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	var g *composite.Geometry
	if !decode(w, r, &g) {
		return
	}
	if g != nil {
		if err := g.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	sessionFrom(r).SetGeometry(g)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev transform.Event
	if !decode(w, r, &ev) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFrom(r).HandleEvent(ev))
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zoom float64 `json:"zoom"`
	}
	if !decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	changed, err := sess.Zoom(req.Zoom)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Changed bool           `json:"changed"`
		State   state.Snapshot `json:"state"`
	}{changed, sess.Snapshot()})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	var art composite.Artifacts
	err := s.renders.run(ctx, sess.ID(), func() error {
		var err error
		art, err = sess.ComposeForCart(ctx)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, composeResponse{
		PrintImage:   art.Print.DataURI(),
		PreviewImage: art.Preview.DataURI(),
	})
}

func (s *Server) handleRoomsActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFrom(r).SetRoomsActive(req.Active))
}

func (s *Server) handleRoomNext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).RoomNext())
}

func (s *Server) handleRoomPrev(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).RoomPrev())
}

func (s *Server) handleRoomSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	slider, err := sessionFrom(r).RoomSelect(req.Index)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, slider)
}

// handleRoomPhoto serves one rendered room photo. A pending recomposition
// is run first so the photo reflects the latest state.
func (s *Server) handleRoomPhoto(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid room photo index: %w", err))
		return
	}
	if idx < 0 || idx >= room.PhotosPerKey {
		writeError(w, http.StatusNotFound, fmt.Errorf("room photo %d out of range", idx))
		return
	}

	sess := sessionFrom(r)
	sess.FlushOverlays()
	data, key, err := sess.Overlay(idx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Room-Key", key)
	if _, err := w.Write(data); err != nil {
		s.log().Error("Failed to write response", "error", err)
	}
}
