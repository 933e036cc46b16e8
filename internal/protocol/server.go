package protocol

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nibzard/slidegauge/internal/config"
)

// Server dispatches protocol requests to registered operations.
type Server struct {
	registry *Registry
	logger   *slog.Logger
}

// NewServer creates a server with the given registry. A nil logger
// falls back to slog.Default().
func NewServer(registry *Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger}
}

// ServeTransport processes requests until the reader is exhausted.
// Every line gets exactly one response; a malformed line gets an error
// response and the loop keeps going.
func (s *Server) ServeTransport(t *Transport) {
	ctx := context.Background()
	for {
		line, err := t.ReadLine()
		if err != nil {
			if err != io.EOF {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		response := s.handleLine(ctx, line)
		if err := t.WriteResponse(response); err != nil {
			s.logger.Debug("write failed", "error", err)
			return
		}
	}
}

// ServeStdio runs the server over the given stdin/stdout streams.
func (s *Server) ServeStdio(stdin io.Reader, stdout io.Writer) {
	s.ServeTransport(NewTransport(stdin, stdout))
}

func (s *Server) handleLine(ctx context.Context, line []byte) any {
	var req Request
	if err := config.DecodeJSON(line, &req); err != nil {
		return errorResponse{Error: err.Error()}
	}
	handler := s.registry.Lookup(req.Op)
	if handler == nil {
		return errorResponse{Error: fmt.Sprintf("Unknown operation: %s", req.Op)}
	}
	result, err := handler(ctx, &req)
	if err != nil {
		s.logger.Debug("operation failed", "op", req.Op, "error", err)
		return errorResponse{Error: err.Error()}
	}
	return result
}
