// Package http exposes the green space operations over HTTP/JSON.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"greenstore/internal/service"
	"greenstore/pkg/dberrors"
	"greenstore/pkg/greenspace"
	"greenstore/pkg/metrics"
	"greenstore/pkg/types"
)

const (
	contentTypeJSON        = "application/json"
	defaultHTTPPort        = "8080"
	defaultShutdownTimeout = time.Second * 5
)

type iService interface {
	Add(p greenspace.Payload) (service.AddResult, error)
	Get(id types.ID) (greenspace.Space, error)
	Update(id types.ID, p greenspace.Payload) (greenspace.Space, error)
	UpdateLocation(id types.ID, location string) (greenspace.Space, error)
	Delete(id types.ID) (greenspace.Space, error)
	ListAll() []greenspace.Space
	SearchByName(q string) []greenspace.Space
	SearchByLocation(q string) []greenspace.Space
	SearchByDescription(q string) []greenspace.Space
	Count() uint64
}

// Server represents the HTTP server over the green space service.
type Server struct {
	svc        iService
	reg        *metrics.Registry
	httpServer *http.Server
	URL        string
	addr       string
}

// NewServer creates a new server instance.
func NewServer(svc iService, port string) *Server {
	if port == "" {
		port = defaultHTTPPort
	}
	return &Server{
		svc:  svc,
		reg:  metrics.NewRegistry(),
		URL:  "http://localhost:" + port,
		addr: ":" + port,
	}
}

// Start starts the server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.createRouter(),
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("HTTP server started", "addr", s.URL)
	return nil
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// createRouter builds chi router
func (s *Server) createRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/spaces", func(r chi.Router) {
		r.Post("/", s.handleAdd)
		r.Get("/", s.handleList)
		r.Get("/count", s.handleCount)
		r.Get("/search/{field}", s.handleSearch)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Patch("/{id}/location", s.handleUpdateLocation)
		r.Delete("/{id}", s.handleDelete)
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Error encoding response", "error", err)
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, dberrors.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, NewErrorResponse(err.Error()))
		return
	}
	s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
}

func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (types.ID, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Invalid id"))
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewOKResponse())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("# greenstore metrics\n" + s.reg.Snapshot())); err != nil {
		slog.Warn("Failed to write metrics response", "error", err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var p greenspace.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Failed to parse request body"))
		return
	}

	res, err := s.svc.Add(p)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}
	if !res.Created {
		s.reg.Inc("add_rejected")
		s.writeJSON(w, http.StatusUnprocessableEntity, NewErrorResponse(res.Reason))
		return
	}

	s.reg.Inc("add")
	s.writeJSON(w, http.StatusCreated, NewSpaceResponse(res.Space))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	space, err := s.svc.Get(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.reg.Inc("get")
	s.writeJSON(w, http.StatusOK, NewSpaceResponse(space))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	var p greenspace.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Failed to parse request body"))
		return
	}

	space, err := s.svc.Update(id, p)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.reg.Inc("update")
	s.writeJSON(w, http.StatusOK, NewSpaceResponse(space))
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Failed to parse request body"))
		return
	}

	space, err := s.svc.UpdateLocation(id, body.Location)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.reg.Inc("update_location")
	s.writeJSON(w, http.StatusOK, NewSpaceResponse(space))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	space, err := s.svc.Delete(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.reg.Inc("delete")
	s.writeJSON(w, http.StatusOK, NewSpaceResponse(space))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.reg.Inc("list")
	s.writeJSON(w, http.StatusOK, NewSpacesResponse(s.svc.ListAll()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var spaces []greenspace.Space
	switch field := chi.URLParam(r, "field"); field {
	case "name":
		spaces = s.svc.SearchByName(q)
	case "location":
		spaces = s.svc.SearchByLocation(q)
	case "description":
		spaces = s.svc.SearchByDescription(q)
	default:
		s.writeJSON(w, http.StatusBadRequest, NewErrorResponse("Unknown search field: "+field))
		return
	}

	s.reg.Inc("search")
	s.writeJSON(w, http.StatusOK, NewSpacesResponse(spaces))
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	s.reg.Inc("count")
	s.writeJSON(w, http.StatusOK, NewCountResponse(s.svc.Count()))
}
