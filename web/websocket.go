/* websocket.go
 * Contains the live match feed. A websocket client follows one group and receives the group's matches every time
 * they change. Sending {"groupId": "B"} switches the followed group, the previous subscription is cancelled
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"tennis-league/api/api"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	feedMessageType = "matches"
)

func (s *Server) newUpgrader() websocket.Upgrader {
	allowed := make(map[string]bool, len(s.origins))
	for _, o := range s.origins {
		allowed[o] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
}

// matchFeedHandler upgrades the connection and streams the matches of the group in the path
func (s *Server) matchFeedHandler(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		s.logger.Warn("failed to upgrade match feed", slog.String("group", groupID), slog.Any("error", err))
		return
	}
	defer conn.Close()

	s.metrics.feedClients.Inc()
	defer s.metrics.feedClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// only the newest state matters, a slow client skips intermediate ones
	updates := make(chan api.BoardState, 1)
	board := s.api.NewMatchBoard(func(state api.BoardState) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer board.Close()

	if err := board.Select(ctx, groupID); err != nil {
		s.logger.Warn("match feed subscription failed", slog.String("group", groupID), slog.Any("error", err))
	}

	go s.readFeed(ctx, cancel, conn, board)
	s.writeFeed(ctx, conn, updates)
}

// readFeed handles group switches and pongs until the client goes away
func (s *Server) readFeed(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, board *api.MatchBoard) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("match feed closed", slog.Any("error", err))
			}
			return
		}

		var req feedRequest
		if err := json.Unmarshal(data, &req); err != nil || req.GroupID == "" {
			s.logger.Debug("ignoring match feed message", slog.String("message", string(data)))
			continue
		}
		if err := board.Select(ctx, req.GroupID); err != nil {
			s.logger.Warn("match feed subscription failed", slog.String("group", req.GroupID), slog.Any("error", err))
		}
	}
}

func (s *Server) writeFeed(ctx context.Context, conn *websocket.Conn, updates <-chan api.BoardState) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case state := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(feedMessage{Type: feedMessageType, Payload: state}); err != nil {
				s.logger.Debug("failed to write match feed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
