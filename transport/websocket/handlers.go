package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleConnect(_ context.Context, conn *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payloadReq.Player == nil || payloadReq.Player.Name == "" {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	player, err := that.manager.GetOrCreatePlayer(payloadReq.Player.Name)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	conn.playerName = player.Name

	payloadResp := Payload{
		Player: player,
		Round:  that.manager.CurrentRound(),
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "player", player.Name)

	return nil
}

func (that *Server) handleRoundStart(ctx context.Context, _ *client, msg *Message) error {
	log := that.logger.With("method", "handleRoundStart")

	grid, round := that.manager.StartNewRound(ctx)

	that.broadcast(msg.Action, Payload{
		Grid:  grid.Values(),
		Round: round,
	})

	log.Info("round started", "round", round)

	return nil
}

func (that *Server) handleScoreUpdate(_ context.Context, conn *client, msg *Message) error {
	log := that.logger.With("method", "handleScoreUpdate")

	var payloadReq Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payloadReq.Delta == nil {
		log.Error("Delta is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Delta is required")
	}

	playerName := conn.playerName
	if payloadReq.Player != nil && payloadReq.Player.Name != "" {
		playerName = payloadReq.Player.Name
	}

	player, err := that.manager.RecordScore(playerName, *payloadReq.Delta)
	if err != nil {
		log.Error("failed to record score", "player", playerName, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	that.broadcast(msg.Action, Payload{
		Player: player,
		Scores: that.manager.RoundScores(),
	})

	log.Info("score recorded", "player", player.Name, "delta", *payloadReq.Delta)

	return nil
}

func (that *Server) handleCurrentScores(_ context.Context, conn *client, msg *Message) error {
	payloadResp := Payload{
		Scores: that.manager.RoundScores(),
		Round:  that.manager.CurrentRound(),
	}

	if err := that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleLeaderboard(ctx context.Context, conn *client, msg *Message) error {
	log := that.logger.With("method", "handleLeaderboard")

	entries, err := that.manager.TopScores(ctx)
	if err != nil {
		log.Error("failed to get leaderboard", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to get leaderboard")
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Leaderboard: entries}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
