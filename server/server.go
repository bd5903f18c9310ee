// Package server exposes the tap tempo model over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/metronome"
)

// StateTimeout is how long GET /state waits for the model.
var StateTimeout = 2 * time.Second

type (
	Server struct {
		broker *metronome.Broker
		log    logrus.FieldLogger
	}

	muteRequest struct {
		Muted *bool `json:"muted"`
	}
)

// New returns the HTTP handler. Requests only post messages to the broker,
// so the handler is safe for concurrent use.
func New(broker *metronome.Broker, cfg taptempo.HTTPConfig) http.Handler {
	s := &Server{broker: broker, log: logrus.WithField("component", "http")}
	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)
	router.HandleFunc("/tap", s.post(func(r *http.Request) any { return metronome.TapMsg{At: time.Now()} })).Methods(http.MethodPost)
	router.HandleFunc("/increment", s.post(func(*http.Request) any { return metronome.IncrementMsg{} })).Methods(http.MethodPost)
	router.HandleFunc("/decrement", s.post(func(*http.Request) any { return metronome.DecrementMsg{} })).Methods(http.MethodPost)
	router.HandleFunc("/reset", s.post(func(*http.Request) any { return metronome.ResetMsg{} })).Methods(http.MethodPost)
	router.HandleFunc("/metronome/toggle", s.post(func(*http.Request) any { return metronome.ToggleMsg{} })).Methods(http.MethodPost)
	router.HandleFunc("/mute", s.handleMute).Methods(http.MethodPut)
	router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
	})
	return c.Handler(router)
}

func (s *Server) post(msg func(r *http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, msg(r))
	}
}

func (s *Server) accept(w http.ResponseWriter, msg any) {
	if !metronome.TrySend(s.broker.ToModel, msg) {
		http.Error(w, "model is busy", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	var req muteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Muted == nil {
		http.Error(w, `missing field "muted"`, http.StatusBadRequest)
		return
	}
	s.accept(w, metronome.MuteMsg{Muted: *req.Muted})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.broker.RequestState(StateTimeout)
	switch {
	case errors.Is(err, metronome.ErrModelBusy):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		s.log.WithError(err).Warn("writing state failed")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
		next.ServeHTTP(w, r)
	})
}
