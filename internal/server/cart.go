package server

import (
	"context"
	"net/http"

	"github.com/MeKo-Tech/photoframer/internal/cart"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/go-chi/chi/v5"
)

type cartTotal struct {
	Items int `json:"items"`
	Price int `json:"price"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	var rec cart.Record
	err := s.renders.run(ctx, sess.ID(), func() error {
		var err error
		rec, err = sess.AddToCart(ctx)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// cartStore answers 503 when no cart is configured.
func (s *Server) cartStore(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	if s.cfg.Cart == nil {
		s.fail(w, r, studio.ErrNoCart)
		return nil, false
	}
	return s.cfg.Cart, true
}

func (s *Server) handleListCart(w http.ResponseWriter, r *http.Request) {
	store, ok := s.cartStore(w, r)
	if !ok {
		return
	}
	recs, err := store.List(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []cart.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleCartTotal(w http.ResponseWriter, r *http.Request) {
	store, ok := s.cartStore(w, r)
	if !ok {
		return
	}
	count, price, err := store.Total(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartTotal{Items: count, Price: price})
}

func (s *Server) handleGetCartItem(w http.ResponseWriter, r *http.Request) {
	store, ok := s.cartStore(w, r)
	if !ok {
		return
	}
	rec, err := store.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	store, ok := s.cartStore(w, r)
	if !ok {
		return
	}
	if err := store.Remove(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
