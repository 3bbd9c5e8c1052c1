package game

import (
	"time"

	"gobaduk/internal/domain/engine"
)

// Game is the Mongo document for one match. The live rules state lives in
// the per-room engine; this record carries configuration, participants and,
// once finished, the archived result and SGF.
type Game struct {
	GameKeySecret string         `json:"game_key_secret,omitempty" bson:"game_key_secret"`
	GameKeyPublic string         `json:"game_key_public" bson:"game_key_public"`
	Status        string         `json:"status" bson:"status"`
	BoardSize     int            `json:"board_size" bson:"board_size"`
	Komi          float64        `json:"komi" bson:"komi"`
	PlayerBlack   string         `json:"player_black" bson:"player_black"`
	PlayerWhite   string         `json:"player_white" bson:"player_white"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	StartedAt     *time.Time     `json:"started_at,omitempty" bson:"started_at,omitempty"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
	Sgf           string         `json:"sgf,omitempty" bson:"sgf,omitempty"`
	Result        *engine.Result `json:"result,omitempty" bson:"result,omitempty"`
}

// ColorOf returns the stone color userID plays in this game, or engine.Empty
// if the user is not a participant.
func (g Game) ColorOf(userID string) engine.Stone {
	switch userID {
	case "":
		return engine.Empty
	case g.PlayerBlack:
		return engine.Black
	case g.PlayerWhite:
		return engine.White
	default:
		return engine.Empty
	}
}

type CreateGameRequest struct {
	BoardSize      int     `json:"board_size"`
	Komi           float64 `json:"komi"`
	IsCreatorBlack bool    `json:"is_creator_black"`
}

type GameCreateResponse struct {
	GameKeyPublic string `json:"game_key_public"`
	GameKeySecret string `json:"game_key_secret"`
}

type GameJoinRequest struct {
	GameKeyPublic string `json:"game_key_public"`
}

type GameInfoRequest struct {
	GameKeyPublic string `json:"game_key_public"`
}

// GameStateResponse is what the relay broadcasts to both players after
// every accepted engine operation.
type GameStateResponse struct {
	Move  *engine.Move    `json:"move,omitempty"`
	State engine.Snapshot `json:"state"`
	SGF   string          `json:"sgf,omitempty"`
}
