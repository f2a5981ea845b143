// Package server provides a REST server that exposes the moray parser over
// HTTP. It is stateless: every request carries its source text and every
// response carries the parse result or a diagnostic.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dekarrin/moray"
	"github.com/dekarrin/moray/internal/version"
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	APIPathPrefix = "/api/v1"
)

// ParseMode selects which parser entry point a request uses.
type ParseMode string

const (
	ModeProgram    ParseMode = "program"
	ModeStatement  ParseMode = "statement"
	ModeExpression ParseMode = "expression"
)

// ParseRequest is the body of a POST /parse request. Mode defaults to
// "program" when empty.
type ParseRequest struct {
	Source string    `json:"source"`
	Mode   ParseMode `json:"mode,omitempty"`
}

// ParseResponse is the successful result of a parse request. AST is the
// pretty-printed tree.
type ParseResponse struct {
	ID      string    `json:"id"`
	Mode    ParseMode `json:"mode"`
	AST     string    `json:"ast"`
	Elapsed int64     `json:"elapsed_us"`
}

// InfoResponse is the result of an info request.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MorayServer is an HTTP-based parse server. The zero-value is not ready for
// use; create one with New.
type MorayServer struct {
	cfg    Config
	router chi.Router
}

// New creates a new MorayServer with the given config. Zero-valued config
// fields are filled with defaults.
func New(cfg Config) (MorayServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return MorayServer{}, fmt.Errorf("validate config: %w", err)
	}

	ms := MorayServer{cfg: cfg}
	ms.router = newRouter(&ms)

	return ms, nil
}

// Config returns the effective configuration of the server.
func (ms MorayServer) Config() Config {
	return ms.cfg
}

// ServeForever begins listening on the configured address. This function
// does not return until the server stops.
func (ms MorayServer) ServeForever() error {
	srv := &http.Server{
		Addr:        ms.cfg.ListenAddress,
		Handler:     ms.router,
		ReadTimeout: ms.cfg.ParseTimeout() + 5*time.Second,
	}
	return srv.ListenAndServe()
}

// ServeHTTP makes the server usable as an http.Handler directly.
func (ms MorayServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ms.router.ServeHTTP(w, req)
}

func newRouter(ms *MorayServer) chi.Router {
	r := chi.NewRouter()

	r.Route(APIPathPrefix, func(r chi.Router) {
		r.Post("/parse", func(w http.ResponseWriter, req *http.Request) {
			ms.doEndpointParse(req).WriteResponse(w, req)
		})
		r.Get("/info", func(w http.ResponseWriter, req *http.Request) {
			ms.doEndpointInfo(req).WriteResponse(w, req)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonErr(http.StatusNotFound, "The requested resource was not found", "not found").WriteResponse(w, req)
	})

	return r
}

func (ms *MorayServer) doEndpointInfo(req *http.Request) EndpointResult {
	return jsonOK(InfoResponse{
		Name:    "moray",
		Version: version.ServerCurrent,
	})
}

func (ms *MorayServer) doEndpointParse(req *http.Request) EndpointResult {
	body, err := io.ReadAll(io.LimitReader(req.Body, int64(ms.cfg.MaxSourceLen)+1))
	if err != nil {
		return jsonBadRequest("Could not read request body", "read body: %v", err)
	}

	var parseReq ParseRequest
	if err := json.Unmarshal(body, &parseReq); err != nil {
		return jsonBadRequest("Request body is not valid JSON", "unmarshal body: %v", err)
	}

	if len(parseReq.Source) > ms.cfg.MaxSourceLen {
		return jsonErr(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Source exceeds the maximum of %d bytes", ms.cfg.MaxSourceLen),
			"source too large: %d bytes", len(parseReq.Source))
	}

	mode := parseReq.Mode
	if mode == "" {
		mode = ModeProgram
	}

	reqID, err := uuid.NewRandom()
	if err != nil {
		return jsonErr(http.StatusInternalServerError, "Could not generate request ID", "uuid: %v", err)
	}

	start := time.Now()

	var top syntax.Top
	var parseErr error
	switch mode {
	case ModeProgram:
		top, parseErr = moray.Parse(parseReq.Source)
	case ModeStatement:
		top, parseErr = moray.ParseStatement(parseReq.Source)
	case ModeExpression:
		top, parseErr = moray.ParseExpression(parseReq.Source)
	default:
		return jsonBadRequest(
			fmt.Sprintf("Mode must be one of %q, %q, or %q", ModeProgram, ModeStatement, ModeExpression),
			"bad mode %q", mode)
	}

	elapsed := time.Since(start)

	if parseErr != nil {
		userMsg := parseErr.Error()
		if synErr, ok := parseErr.(lex.SyntaxError); ok {
			userMsg = synErr.FullMessage()
		}
		return jsonBadRequest(userMsg, "parse failed (request %s): %v", reqID, parseErr)
	}

	return jsonOK(ParseResponse{
		ID:      reqID.String(),
		Mode:    mode,
		AST:     syntax.DumpTop(top),
		Elapsed: elapsed.Microseconds(),
	}, "parsed %d bytes in %s (request %s)", len(parseReq.Source), elapsed, reqID)
}
