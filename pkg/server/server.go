// Package server exposes card reads over a websocket and advertises itself
// on the local network with mDNS.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"

	"github.com/gregLibert/thai-id-card/pkg/thaiid"
)

// mDNS registration.
const (
	ServiceName = "Thai ID Reader"
	ServiceType = "_thaiid._tcp"
	Domain      = "local."
)

// Message types.
const (
	TypeRead       = "read"
	TypeReadResult = "readResult"
	TypeError      = "error"
)

// Error codes carried by failed responses.
const (
	CodeParse        = "PARSE_ERROR"
	CodeUnknownType  = "UNKNOWN_TYPE"
	CodeNoReader     = "NO_READER"
	CodeConnection   = "CONNECTION_FAILED"
	CodeTransmission = "TRANSMISSION_FAILED"
	CodeStatus       = "STATUS_ERROR"
	CodeDecoding     = "DECODING_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

// Request is a message sent by a client.
type Request struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

// Response answers a Request. Data is the record map, {"Error": "No data"} for
// a card with a blank CID, and absent when the read failed: Code and Error say
// why. Photo is the raw JPEG, base64 encoded in JSON.
type Response struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Photo   []byte         `json:"photo,omitempty"`
	Code    string         `json:"code,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Config holds the read options applied to every request.
type Config struct {
	Reader string // empty for the first reader
	Strict bool
}

// Server reads cards on demand. Reads are serialised: the reader belongs to
// one session at a time and concurrent requests wait their turn.
type Server struct {
	svc      thaiid.ReaderService
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	readMu sync.Mutex
	mdns   *zeroconf.Server
}

// New creates a server reading through svc.
func New(svc thaiid.ReaderService, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:    svc,
		config: config,
		logger: logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes: /ws, /api/v1/card and /healthcheck.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/v1/card", s.handleCard)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Read performs one card read and builds the response for it.
func (s *Server) Read(id string) Response {
	if id == "" {
		id = uuid.New().String()
	}

	s.readMu.Lock()
	defer s.readMu.Unlock()

	opts := []thaiid.Option{thaiid.WithLogger(s.logger)}
	if s.config.Strict {
		opts = append(opts, thaiid.WithStrictStatus())
	}

	start := time.Now()
	rec, err := thaiid.Read(s.svc, s.config.Reader, opts...)
	if err != nil {
		s.logger.Warn("card read failed", "id", id, "err", err)
		return Response{
			ID:    id,
			Type:  TypeReadResult,
			Code:  errorCode(err),
			Error: err.Error(),
		}
	}

	s.logger.Info("card read", "id", id, "duration", time.Since(start))
	return Response{
		ID:      id,
		Type:    TypeReadResult,
		Success: true,
		Data:    rec.Data(),
		Photo:   rec.Photo,
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, thaiid.ErrNoReader):
		return CodeNoReader
	case errors.Is(err, thaiid.ErrConnection):
		return CodeConnection
	case errors.Is(err, thaiid.ErrTransmission):
		return CodeTransmission
	case errors.Is(err, thaiid.ErrStatus):
		return CodeStatus
	case errors.Is(err, thaiid.ErrDecoding):
		return CodeDecoding
	default:
		return CodeInternal
	}
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	resp := s.Read(r.Header.Get("X-Request-ID"))

	w.Header().Set("Content-Type", "application/json")
	switch resp.Code {
	case "":
	case CodeNoReader, CodeConnection:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusBadGateway)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Unable to write card response", "err", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	s.logger.Info("client connected", "client", clientID[:8])
	defer s.logger.Info("client disconnected", "client", clientID[:8])

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "client", clientID[:8], "err", err)
			}
			return
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(message, &req); err != nil {
			resp = Response{Type: TypeError, Code: CodeParse, Error: "invalid message format"}
		} else {
			switch req.Type {
			case TypeRead:
				resp = s.Read(req.ID)
			default:
				resp = Response{ID: req.ID, Type: TypeError, Code: CodeUnknownType, Error: fmt.Sprintf("unknown message type: %s", req.Type)}
			}
		}

		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write failed", "client", clientID[:8], "err", err)
			return
		}
	}
}

// Advertise registers the service with mDNS on port.
func (s *Server) Advertise(port int) error {
	server, err := zeroconf.Register(ServiceName, ServiceType, Domain, port, []string{
		"protocol=websocket",
		"path=/ws",
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.mdns = server
	s.logger.Info("mDNS service registered", "type", ServiceType, "port", port)
	return nil
}

// Shutdown withdraws the mDNS registration.
func (s *Server) Shutdown() {
	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}
}
