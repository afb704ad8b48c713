package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/pkg/models"
)

// maxBodyBytes bounds request bodies on top of the per-operand limit.
const maxBodyBytes = 8 << 20

// opInfo is one entry of the /v1/ops listing.
type opInfo struct {
	Name    string `json:"name"`
	Arity   int    `json:"arity"`
	Summary string `json:"summary"`
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body models.EvalRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "input_too_large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "invalid_argument")
		return
	}
	s.evaluate(w, r.Context(), service.Request{
		Op:        body.Op,
		Args:      body.Args,
		Base:      body.Base,
		Charset:   body.Charset,
		ToBase:    body.ToBase,
		ToCharset: body.ToCharset,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value := q.Get("value")
	if value == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'value' parameter", "invalid_argument")
		return
	}
	from, err := intParam(q.Get("from"), 10)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid 'from' parameter", "invalid_base")
		return
	}
	to, err := intParam(q.Get("to"), 0)
	if err != nil || to == 0 {
		s.writeError(w, http.StatusBadRequest, "invalid or missing 'to' parameter", "invalid_base")
		return
	}
	s.evaluate(w, r.Context(), service.Request{
		Op:        "convert",
		Args:      []string{value},
		Base:      from,
		Charset:   q.Get("charset"),
		ToBase:    to,
		ToCharset: q.Get("to_charset"),
	})
}

func (s *Server) handleOps(w http.ResponseWriter, _ *http.Request) {
	ops := s.service.Ops()
	list := make([]opInfo, 0, len(ops))
	for _, op := range ops {
		list = append(list, opInfo{Name: op.Name, Arity: op.Arity, Summary: op.Summary})
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Charsets:  s.service.Factory().Registry().Len(),
		Timestamp: time.Now().Unix(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path, "not_found")
}

func (s *Server) evaluate(w http.ResponseWriter, parent context.Context, req service.Request) {
	ctx := parent
	if s.timeouts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeouts.RequestTimeout)
		defer cancel()
	}
	start := time.Now()
	res, err := s.service.Evaluate(ctx, req)
	duration := time.Since(start)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			s.logger.Error("evaluation failed", err, logging.String("op", req.Op))
		}
		s.writeError(w, code, err.Error(), service.ErrorKind(err))
		return
	}
	s.writeJSON(w, http.StatusOK, service.ToResponse(res, duration))
}

// statusFor maps an evaluation error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownOp):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrExponentTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case apperrors.IsInputError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, kind string) {
	s.writeJSON(w, status, models.ErrorResponse{Error: message, Kind: kind})
}
