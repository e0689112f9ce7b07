package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/paulmach/orb"

	"github.com/maastrichtu-biss/informed-search/internal/aostar"
	"github.com/maastrichtu-biss/informed-search/internal/astar"
	"github.com/maastrichtu-biss/informed-search/internal/metrics"
	"github.com/maastrichtu-biss/informed-search/internal/problem"
	"github.com/maastrichtu-biss/informed-search/internal/spatial"
)

var (
	errMissingProblem  = errors.New("problem is required")
	errCoordinatesFile = errors.New("coordinatesFile is not supported over HTTP, send coordinates inline")
)

// AStarRequest is the body of POST /astar. Start and Goal override the
// document's own values.
type AStarRequest struct {
	Problem  *problem.Document `json:"problem"`
	Start    string            `json:"start,omitempty"`
	Goal     string            `json:"goal,omitempty"`
	TieBreak string            `json:"tieBreak,omitempty"`
	Strategy string            `json:"strategy,omitempty"`
}

// SearchResponse is returned by /astar and /route. Cost is omitted when no
// path exists.
type SearchResponse struct {
	Found    bool     `json:"found"`
	Path     []string `json:"path"`
	Cost     *float64 `json:"cost,omitempty"`
	Expanded int      `json:"expanded"`
	Message  string   `json:"message,omitempty"`

	// Route only
	From      string       `json:"from,omitempty"`
	To        string       `json:"to,omitempty"`
	Waypoints [][2]float64 `json:"waypoints,omitempty"`
}

// AOStarRequest is the body of POST /aostar
type AOStarRequest struct {
	Problem     *problem.Document `json:"problem"`
	Start       string            `json:"start,omitempty"`
	CyclePolicy string            `json:"cyclePolicy,omitempty"`
}

// ChoiceResponse is one solved node. Cost is omitted when infinite.
type ChoiceResponse struct {
	Node  string   `json:"node"`
	Group []string `json:"group"`
	Cost  *float64 `json:"cost,omitempty"`
}

// AOStarResponse lists choices in completion order
type AOStarResponse struct {
	Root    string           `json:"root"`
	Cost    *float64         `json:"cost,omitempty"`
	Choices []ChoiceResponse `json:"choices"`
	Plan    []string         `json:"plan"`
}

// RouteRequest is the body of POST /route. From and To are free
// coordinates snapped to the nearest problem node.
type RouteRequest struct {
	Problem  *problem.Document `json:"problem"`
	From     *[2]float64       `json:"from"`
	To       *[2]float64       `json:"to"`
	TieBreak string            `json:"tieBreak,omitempty"`
	Strategy string            `json:"strategy,omitempty"`
}

// POST /astar - best-first search on a problem document
func (s *Server) astarHandler(w http.ResponseWriter, r *http.Request) {
	log := s.loggerFrom(r)
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req AStarRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !checkProblem(w, req.Problem) {
		return
	}

	doc := req.Problem
	if req.Start != "" {
		doc.Start = req.Start
	}
	if req.Goal != "" {
		doc.Goal = req.Goal
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := s.astarOptions(req.TieBreak, req.Strategy, log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, ok := s.search(w, log, doc, opts)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

// POST /aostar - solve the AND-OR graph of a problem document
func (s *Server) aostarHandler(w http.ResponseWriter, r *http.Request) {
	log := s.loggerFrom(r)
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req AOStarRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !checkProblem(w, req.Problem) {
		return
	}

	doc := req.Problem
	if req.Start != "" {
		doc.Start = req.Start
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := s.cfg.Search.AOStarOptions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if req.CyclePolicy != "" {
		policy, err := aostar.ParseCyclePolicy(req.CyclePolicy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts = append(opts, aostar.WithCyclePolicy(policy))
	}
	opts = append(opts, aostar.WithLogger(log))

	start := time.Now()
	sol, err := doc.Solve(opts...)
	if err != nil {
		metrics.ObserveSearch("aostar", metrics.OutcomeError, 0, time.Since(start))
		log.Warn("aostar failed", slog.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	metrics.ObserveSearch("aostar", metrics.OutcomeSolved, len(sol.Order), time.Since(start))
	log.Info("aostar solved",
		slog.String("root", sol.Root),
		slog.Float64("cost", sol.Cost()),
		slog.Int("nodes", len(sol.Order)))

	resp := AOStarResponse{
		Root:    sol.Root,
		Cost:    finite(sol.Cost()),
		Choices: make([]ChoiceResponse, 0, len(sol.Order)),
		Plan:    sol.Plan(),
	}
	for _, n := range sol.Order {
		choice := sol.Choices[n]
		group := choice.Group
		if group == nil {
			group = []string{}
		}
		resp.Choices = append(resp.Choices, ChoiceResponse{Node: n, Group: group, Cost: finite(choice.Cost)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /route - snap free coordinates to the nearest nodes and search
// between them
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log := s.loggerFrom(r)
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}

	var req RouteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !checkProblem(w, req.Problem) {
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, http.StatusBadRequest, errors.New("from and to are required"))
		return
	}

	doc := req.Problem
	coords := doc.Points()
	if len(coords) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: problem has no node coordinates", spatial.ErrMissingCoordinates))
		return
	}

	index := spatial.NewIndex(coords)
	from, _ := index.Nearest(orb.Point(*req.From))
	to, _ := index.Nearest(orb.Point(*req.To))
	log.Debug("snapped route endpoints", slog.String("from", from), slog.String("to", to))

	doc.Start = from
	doc.Goal = to
	if doc.HeuristicSource == "" {
		doc.HeuristicSource = problem.SourceHaversine
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := s.astarOptions(req.TieBreak, req.Strategy, log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, ok := s.search(w, log, doc, opts)
	if !ok {
		return
	}

	resp := searchResponse(res)
	resp.From = from
	resp.To = to
	for _, id := range res.Path {
		p := coords[id]
		resp.Waypoints = append(resp.Waypoints, [2]float64{p.X(), p.Y()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ready",
		"uptimeSeconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) astarOptions(tieBreak, strategy string, log *slog.Logger) ([]astar.Option, error) {
	opts, err := s.cfg.Search.AStarOptions()
	if err != nil {
		return nil, err
	}
	if tieBreak != "" {
		tb, err := astar.ParseTieBreak(tieBreak)
		if err != nil {
			return nil, err
		}
		opts = append(opts, astar.WithTieBreak(tb))
	}
	if strategy != "" {
		st, err := astar.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, astar.WithStrategy(st))
	}
	return append(opts, astar.WithLogger(log)), nil
}

// search runs the document search, writing a 422 and returning false on
// failure.
func (s *Server) search(w http.ResponseWriter, log *slog.Logger, doc *problem.Document, opts []astar.Option) (astar.Result[string], bool) {
	start := time.Now()
	res, err := doc.Search(opts...)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveSearch("astar", metrics.OutcomeError, 0, elapsed)
		log.Warn("search failed", slog.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, err)
		return res, false
	}

	outcome := metrics.OutcomeFound
	if !res.Found {
		outcome = metrics.OutcomeNotFound
	}
	metrics.ObserveSearch("astar", outcome, res.Expanded, elapsed)
	log.Info("search finished",
		slog.String("start", doc.Start),
		slog.String("goal", doc.Goal),
		slog.Bool("found", res.Found),
		slog.Int("expanded", res.Expanded))
	return res, true
}

// checkProblem rejects a missing document and file references, which the
// server never reads.
func checkProblem(w http.ResponseWriter, doc *problem.Document) bool {
	if doc == nil {
		writeError(w, http.StatusBadRequest, errMissingProblem)
		return false
	}
	if doc.CoordinatesFile != "" {
		writeError(w, http.StatusBadRequest, errCoordinatesFile)
		return false
	}
	return true
}

func searchResponse(res astar.Result[string]) SearchResponse {
	resp := SearchResponse{
		Found:    res.Found,
		Path:     res.Path,
		Expanded: res.Expanded,
	}
	if res.Found {
		resp.Cost = finite(res.Cost)
	} else {
		resp.Path = []string{}
		resp.Message = "no path found"
	}
	return resp
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	s.loggerFrom(r).Warn("method not allowed", slog.String("method", r.Method))
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.loggerFrom(r).Warn("invalid request body", slog.String("error", err.Error()))

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
