package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/archive"
	"github.com/lawnchairsociety/floorforge/internal/floor"
)

// GenerateRequest asks for one floor. Nil fields take their defaults.
type GenerateRequest struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	BossKeys  *int     `json:"boss_keys,omitempty"`
	Inventory []string `json:"inventory,omitempty"`
	Seed      *int64   `json:"seed,omitempty"`
}

// GenerateResponse carries the generated package. ID is set only when the
// floor was archived.
type GenerateResponse struct {
	ID       string         `json:"id,omitempty"`
	Attempts int            `json:"attempts"`
	Seed     int64          `json:"seed"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	BossKeys int            `json:"boss_keys"`
	Stats    floor.Stats    `json:"stats"`
	Package  *floor.Package `json:"package"`
}

// requestError is a failure caused by the request itself.
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// generate runs one request through the room-placement runner.
func (s *Server) generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	width, height := s.cfg.Generator.ClampSize(req.Width, req.Height)

	bossKeys := floor.DefaultBossKeys(width)
	if req.BossKeys != nil {
		if *req.BossKeys < 0 {
			return nil, &requestError{http.StatusBadRequest, errors.New("boss_keys must not be negative")}
		}
		bossKeys = *req.BossKeys
	}

	seed := s.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	opts, err := s.cfg.Generator.Options(width, height, seed)
	if err != nil {
		return nil, err
	}
	for _, name := range req.Inventory {
		id, err := access.ParseItem(name)
		if err != nil {
			return nil, &requestError{http.StatusBadRequest, err}
		}
		opts.StartInventory = append(opts.StartInventory, id)
	}

	runner := &floor.Runner{
		Catalog:     s.catalog,
		Options:     opts,
		MaxAttempts: s.cfg.Generator.MaxAttempts,
		Parallel:    s.cfg.Generator.Parallel,
		Logger:      s.log.With("width", width, "height", height),
	}
	result, err := runner.Run(ctx, bossKeys)
	switch {
	case errors.Is(err, floor.ErrInvalidSize):
		return nil, &requestError{http.StatusBadRequest, err}
	case errors.Is(err, floor.ErrAttemptsExhausted):
		return nil, &requestError{http.StatusUnprocessableEntity, err}
	case err != nil:
		return nil, err
	}

	resp := &GenerateResponse{
		Attempts: result.Attempt + 1,
		Seed:     result.Seed,
		Width:    width,
		Height:   height,
		BossKeys: bossKeys,
		Stats:    result.Generator.Stats(),
		Package:  result.Package,
	}
	if s.store == nil {
		return resp, nil
	}

	raw, err := json.Marshal(result.Package)
	if err != nil {
		return nil, fmt.Errorf("encode package: %w", err)
	}
	resp.ID, err = s.store.SaveFloor(ctx, &archive.FloorRecord{
		Seed:      result.Seed,
		Width:     width,
		Height:    height,
		BossKeys:  bossKeys,
		Attempts:  resp.Attempts,
		RoomCount: resp.Stats.Rooms,
		Package:   raw,
	})
	if err != nil {
		return nil, fmt.Errorf("archive floor: %w", err)
	}
	return resp, nil
}

func (s *Server) handleCreateFloor(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.generate(r.Context(), req)
	if err != nil {
		s.respondGenerateError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListFloors(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	floors, err := s.store.ListFloors(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list floors", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list floors")
		return
	}
	if floors == nil {
		floors = []archive.FloorRecord{}
	}
	respondJSON(w, http.StatusOK, floors)
}

func (s *Server) handleGetFloor(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}

	rec, err := s.store.GetFloor(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, archive.ErrNotFound) {
		respondError(w, http.StatusNotFound, "floor not found")
		return
	}
	if err != nil {
		s.log.Error("failed to load floor", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load floor")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) respondGenerateError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		respondError(w, reqErr.status, reqErr.Error())
		return
	}
	s.log.Error("floor generation failed", "error", err)
	respondError(w, http.StatusInternalServerError, "generation failed")
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
