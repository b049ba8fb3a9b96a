package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fruitboxhq/fruitbox-backend/internal/entity"
	"github.com/fruitboxhq/fruitbox-backend/internal/repository"
)

type gameManager interface {
	GetOrCreatePlayer(name string) (*entity.Player, error)
	RecordScore(name string, delta int) (*entity.Player, error)
	StartNewRound(ctx context.Context) (entity.Grid, int)
	CurrentRound() int
	RoundScores() map[string][]int
	TopScores(ctx context.Context) ([]repository.Entry, error)
}

// client is one connected socket. Writes go through the client's own
// lock because gorilla connections allow a single concurrent writer.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex
	playerName string
}

func (that *client) write(msg *Message) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	handlers map[string]func(ctx context.Context, conn *client, message *Message) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["round:start"] = server.handleRoundStart
	server.handlers["score:update"] = server.handleScoreUpdate
	server.handlers["scores:current"] = server.handleCurrentScores
	server.handlers["leaderboard"] = server.handleLeaderboard

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the request and runs the read loop until the
// client goes away.
func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()
	connected := &client{conn: conn}

	that.connectionsMutex.Lock()
	that.connections[connID] = connected
	that.connectionsMutex.Unlock()

	log = log.With("connID", connID)
	log.Info("WebSocket connection established")

	defer func() {
		that.connectionsMutex.Lock()
		delete(that.connections, connID)
		that.connectionsMutex.Unlock()

		if err = conn.Close(); err != nil {
			log.Error("failed to close connection", "error", err)
		}

		log.Info("WebSocket connection closed")
	}()

	that.handleMessages(ctx, connected, log)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *client, log *slog.Logger) {
	for {
		_, reqBody, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				log.Error("failed to send error response", "error", err)
			}
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *client, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return conn.write(&Message{
		Action:  action,
		Payload: payloadBytes,
	})
}

func (that *Server) sendErrorResponse(conn *client, action, errorMsg string) error {
	payload := Payload{Error: errorMsg}
	if err := that.sendMessage(conn, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// broadcast sends one message to every connected client.
func (that *Server) broadcast(action string, payload Payload) {
	log := that.logger.With("method", "broadcast")

	that.connectionsMutex.RLock()
	connections := make([]*client, 0, len(that.connections))
	for _, conn := range that.connections {
		connections = append(connections, conn)
	}
	that.connectionsMutex.RUnlock()

	for _, conn := range connections {
		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to send broadcast", "action", action, "error", err)
		}
	}
}
