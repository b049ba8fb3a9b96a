package websocket

import (
	"encoding/json"

	"github.com/fruitboxhq/fruitbox-backend/internal/entity"
	"github.com/fruitboxhq/fruitbox-backend/internal/repository"
)

// Message is the wire envelope: an action name plus an action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player      *entity.Player     `json:"player,omitempty"`
	Grid        [][]int            `json:"grid,omitempty"`
	Round       int                `json:"round,omitempty"`
	Delta       *int               `json:"delta,omitempty"`
	Scores      map[string][]int   `json:"scores,omitempty"`
	Leaderboard []repository.Entry `json:"leaderboard,omitempty"`
	Error       string             `json:"error,omitempty"`
}
