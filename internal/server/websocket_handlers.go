package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/descan/internal/cropsession"
	"github.com/MeKo-Tech/descan/internal/geometry"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// CropSessionRequest is a client message in the crop session protocol.
type CropSessionRequest struct {
	Type   string        `json:"type"` // start, begin_drag, update_drag, end_drag, reset, commit, cancel
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
	Bounds *QuadPayload  `json:"bounds,omitempty"`
	Corner string        `json:"corner,omitempty"`
	Point  *PointPayload `json:"point,omitempty"`
}

// CropSessionResponse is a server message in the crop session protocol.
type CropSessionResponse struct {
	Type      string       `json:"type"` // state, committed, cancelled, error
	SessionID string       `json:"session_id,omitempty"`
	State     string       `json:"state,omitempty"`
	Bounds    *QuadPayload `json:"bounds,omitempty"`
	// BoundsPixels is only present on commit: the final crop in the
	// original image's pixel space.
	BoundsPixels *pixelQuadPayload `json:"bounds_pixels,omitempty"`
	Error        string            `json:"error,omitempty"`
}

type pixelPointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pixelQuadPayload struct {
	TopLeft     pixelPointPayload `json:"top_left"`
	TopRight    pixelPointPayload `json:"top_right"`
	BottomRight pixelPointPayload `json:"bottom_right"`
	BottomLeft  pixelPointPayload `json:"bottom_left"`
}

// sessionIDs numbers crop sessions across the server's lifetime so log
// lines and client messages can be correlated.
var sessionIDs atomic.Int64

func nextSessionID() string {
	return strconv.FormatInt(sessionIDs.Add(1), 10)
}

// cropSessionHandler runs the interactive manual-crop protocol over a
// WebSocket connection. Each connection owns exactly one session.
func (s *Server) cropSessionHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	cropSessionsActive.Inc()
	defer cropSessionsActive.Dec()

	slog.Info("Crop session connection established", "remote_addr", r.RemoteAddr)
	s.runCropSession(conn)
}

// runCropSession drives one session until the connection closes or the
// crop is committed.
func (s *Server) runCropSession(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	var session *cropsession.Session
	var sessionID string

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Error("Crop session WebSocket error", "error", err)
			}
			return
		}
		cropSessionMessagesTotal.WithLabelValues("received").Inc()
		if messageType != websocket.TextMessage {
			continue
		}

		var req CropSessionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.sendCropSessionError(conn, fmt.Sprintf("Failed to parse request: %v", err))
			continue
		}

		if req.Type == "start" {
			if session != nil {
				s.sendCropSessionError(conn, "Session already started")
				continue
			}
			session, err = startSession(req)
			if err != nil {
				s.sendCropSessionError(conn, err.Error())
				continue
			}
			sessionID = nextSessionID()
			s.sendCropSessionState(conn, sessionID, session)
			continue
		}

		if session == nil {
			s.sendCropSessionError(conn, "Session not started")
			continue
		}
		if s.handleCropSessionMessage(conn, sessionID, session, req) {
			return
		}
	}
}

// startSession creates a session from the start message.
func startSession(req CropSessionRequest) (*cropsession.Session, error) {
	if req.Bounds == nil {
		return cropsession.NewWithDefaultCrop(req.Width, req.Height)
	}
	quad := payloadToQuad(*req.Bounds, req.Width, req.Height)
	return cropsession.New(req.Width, req.Height, quad)
}

// handleCropSessionMessage applies one mutation. Returns true when the
// session reached its terminal state and the connection should close.
func (s *Server) handleCropSessionMessage(conn *websocket.Conn, id string, session *cropsession.Session, req CropSessionRequest) bool {
	var err error
	switch req.Type {
	case "begin_drag":
		corner, cornerErr := parseCorner(req.Corner)
		if cornerErr != nil {
			s.sendCropSessionError(conn, cornerErr.Error())
			return false
		}
		err = session.BeginDrag(corner)
	case "update_drag":
		if req.Point == nil {
			s.sendCropSessionError(conn, "No point provided")
			return false
		}
		err = session.UpdateDrag(geometry.NormalizedPoint{X: req.Point.X, Y: req.Point.Y})
	case "end_drag":
		err = session.EndDrag()
	case "reset":
		err = session.Reset()
	case "commit":
		quad, commitErr := session.Commit()
		if commitErr != nil {
			s.sendCropSessionError(conn, commitErr.Error())
			return false
		}
		s.sendCropSessionCommit(conn, id, session, quad)
		return true
	case "cancel":
		if cancelErr := session.Cancel(); cancelErr != nil {
			s.sendCropSessionError(conn, cancelErr.Error())
			return false
		}
		// No bounds come out of a cancelled session.
		s.sendCropSessionResponse(conn, CropSessionResponse{
			Type:      "cancelled",
			SessionID: id,
			State:     string(session.State()),
		})
		return true
	default:
		s.sendCropSessionError(conn, "Unsupported request type: "+req.Type)
		return false
	}

	if err != nil {
		s.sendCropSessionError(conn, err.Error())
		return false
	}
	s.sendCropSessionState(conn, id, session)
	return false
}

func parseCorner(name string) (cropsession.Corner, error) {
	switch name {
	case "top_left":
		return cropsession.CornerTopLeft, nil
	case "top_right":
		return cropsession.CornerTopRight, nil
	case "bottom_right":
		return cropsession.CornerBottomRight, nil
	case "bottom_left":
		return cropsession.CornerBottomLeft, nil
	}
	return 0, fmt.Errorf("unknown corner %q", name)
}

func boundsPayload(session *cropsession.Session) *QuadPayload {
	b := session.Bounds()
	return &QuadPayload{
		TopLeft:     PointPayload{X: b.TopLeft.X, Y: b.TopLeft.Y},
		TopRight:    PointPayload{X: b.TopRight.X, Y: b.TopRight.Y},
		BottomRight: PointPayload{X: b.BottomRight.X, Y: b.BottomRight.Y},
		BottomLeft:  PointPayload{X: b.BottomLeft.X, Y: b.BottomLeft.Y},
	}
}

func (s *Server) sendCropSessionState(conn *websocket.Conn, id string, session *cropsession.Session) {
	s.sendCropSessionResponse(conn, CropSessionResponse{
		Type:      "state",
		SessionID: id,
		State:     string(session.State()),
		Bounds:    boundsPayload(session),
	})
}

func (s *Server) sendCropSessionCommit(conn *websocket.Conn, id string, session *cropsession.Session, quad geometry.Quad) {
	s.sendCropSessionResponse(conn, CropSessionResponse{
		Type:      "committed",
		SessionID: id,
		State:     string(session.State()),
		Bounds:    boundsPayload(session),
		BoundsPixels: &pixelQuadPayload{
			TopLeft:     pixelPointPayload{X: quad.TopLeft.X, Y: quad.TopLeft.Y},
			TopRight:    pixelPointPayload{X: quad.TopRight.X, Y: quad.TopRight.Y},
			BottomRight: pixelPointPayload{X: quad.BottomRight.X, Y: quad.BottomRight.Y},
			BottomLeft:  pixelPointPayload{X: quad.BottomLeft.X, Y: quad.BottomLeft.Y},
		},
	})
}

func (s *Server) sendCropSessionError(conn *websocket.Conn, message string) {
	s.sendCropSessionResponse(conn, CropSessionResponse{
		Type:  "error",
		Error: message,
	})
}

func (s *Server) sendCropSessionResponse(conn *websocket.Conn, resp CropSessionResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal crop session response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send crop session message", "error", err)
		return
	}
	cropSessionMessagesTotal.WithLabelValues("sent").Inc()
}
