package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/okplanar/pkg/buildinfo"
	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/pipeline"
	"github.com/matzehuels/okplanar/pkg/store"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// SolveRequest is the body of POST /v1/solve. Exactly one of Graph6 and
// Graph must be set; Graph uses the {"nodes": [...], "edges": [...]} JSON
// graph format.
type SolveRequest struct {
	Graph6 string          `json:"graph6,omitempty"`
	Graph  json.RawMessage `json:"graph,omitempty"`
	pipeline.Options
}

// SolveResponse is the reply to POST /v1/solve. ID and RunID are set when
// the server persists results.
type SolveResponse struct {
	ID        string            `json:"id,omitempty"`
	RunID     string            `json:"run_id,omitempty"`
	Report    *gio.Report       `json:"report"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

// BatchGraph is one entry of a batch request.
type BatchGraph struct {
	Name   string `json:"name,omitempty"`
	Graph6 string `json:"graph6"`
}

// BatchRequest is the body of POST /v1/batch. Render options are ignored.
type BatchRequest struct {
	Graphs []BatchGraph `json:"graphs"`
	pipeline.Options
}

// BatchEntry is the outcome for one graph of a batch.
type BatchEntry struct {
	Index          int     `json:"index"`
	Name           string  `json:"name,omitempty"`
	CrossingNumber int     `json:"crossing_number"`
	Order          []int   `json:"order,omitempty"`
	Cached         bool    `json:"cached,omitempty"`
	ElapsedMS      float64 `json:"elapsed_ms"`
	Error          string  `json:"error,omitempty"`
}

// BatchSummary aggregates a batch response.
type BatchSummary struct {
	Total     int         `json:"total"`
	Solved    int         `json:"solved"`
	Failed    int         `json:"failed"`
	Cached    int         `json:"cached"`
	MaxK      int         `json:"max_k"`
	Histogram map[int]int `json:"histogram"`
}

// BatchResponse is the reply to POST /v1/batch.
type BatchResponse struct {
	RunID   string       `json:"run_id"`
	Results []BatchEntry `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := req.graph()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkSize(g); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.withDefaults(req.Options)
	res, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := SolveResponse{Report: res.Report}
	if len(res.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(res.Artifacts))
		for format, data := range res.Artifacts {
			resp.Artifacts[format] = string(data)
		}
	}
	if s.store != nil {
		rec := store.NewRecord(store.NewRunID(), 0, res.Report)
		if err := s.store.Put(r.Context(), rec); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.ID, resp.RunID = rec.ID, rec.RunID
		res.Report.ID = rec.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Graphs) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "batch has no graphs"))
		return
	}
	if len(req.Graphs) > s.cfg.MaxBatch {
		s.writeError(w, r, errors.New(errors.ErrCodeTooLarge, "batch has %d graphs, limit is %d", len(req.Graphs), s.cfg.MaxBatch))
		return
	}

	items := make([]pipeline.BatchItem, len(req.Graphs))
	for i, bg := range req.Graphs {
		g, err := gio.DecodeGraph6(bg.Graph6)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "graph %d", i))
			return
		}
		if err := s.checkSize(g); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeTooLarge, err, "graph %d", i))
			return
		}
		name := bg.Name
		if name == "" {
			name = bg.Graph6
		}
		items[i] = pipeline.BatchItem{Name: name, Graph: g}
	}

	opts := s.withDefaults(req.Options)
	runID, results, err := s.runner.Batch(r.Context(), items, opts, pipeline.BatchOptions{
		Workers: s.cfg.Workers,
		Store:   s.store,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBatchResponse(runID, results))
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "result storage is disabled"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "result storage is disabled"))
		return
	}
	runID := chi.URLParam(r, "runID")
	recs, err := s.store.Run(r.Context(), runID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(recs) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "run %s not found", runID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "records": recs})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (req *SolveRequest) graph() (*graph.Graph, error) {
	switch {
	case req.Graph6 != "" && len(req.Graph) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either graph6 or graph, not both")
	case req.Graph6 != "":
		return gio.DecodeGraph6(req.Graph6)
	case len(req.Graph) > 0:
		return gio.ReadJSON(bytes.NewReader(req.Graph))
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "request has no graph")
}

func (s *Server) checkSize(g *graph.Graph) error {
	if g.N() > s.cfg.MaxVertices {
		return errors.New(errors.ErrCodeTooLarge, "graph has %d vertices, limit is %d", g.N(), s.cfg.MaxVertices)
	}
	return nil
}

// withDefaults fills the solve fields a request left empty from the server
// configuration.
func (s *Server) withDefaults(opts pipeline.Options) pipeline.Options {
	d := s.cfg.Defaults
	if opts.Method == "" {
		opts.Method = d.Method
	}
	if opts.Ceiling == 0 {
		opts.Ceiling = d.Ceiling
	}
	if !opts.NoBCT {
		opts.NoBCT = d.NoBCT
	}
	opts.Logger = s.logger
	return opts
}

func newBatchResponse(runID string, results []pipeline.BatchResult) BatchResponse {
	sum := pipeline.Summarize(results)
	resp := BatchResponse{
		RunID:   runID,
		Results: make([]BatchEntry, len(results)),
		Summary: BatchSummary{
			Total:     sum.Total,
			Solved:    sum.Solved,
			Failed:    sum.Failed,
			Cached:    sum.Cached,
			MaxK:      sum.MaxK,
			Histogram: sum.Histogram,
		},
	}
	for i, res := range results {
		e := BatchEntry{
			Index:          res.Index,
			Name:           res.Name,
			CrossingNumber: -1,
			ElapsedMS:      float64(res.Elapsed.Microseconds()) / 1000,
		}
		if res.Report != nil {
			e.CrossingNumber = res.Report.CrossingNumber
			e.Order = res.Report.Order
			e.Cached = res.Report.Cached
		} else if res.Err != nil {
			e.Error = errors.UserMessage(res.Err)
		}
		resp.Results[i] = e
	}
	return resp
}
