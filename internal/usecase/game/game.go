package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gobaduk/internal/domain/engine"
	"gobaduk/internal/domain/game"
	"gobaduk/internal/domain/sgf"
	errs "gobaduk/internal/errors"
	"gobaduk/internal/statuses"
)

type GameStore interface {
	GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string)
	PutGameToMongoDatabase(ctx context.Context, gameData game.Game) bool
	AddPlayer(ctx context.Context, userID string, gameKeyPublic string) (game.Game, error)
	GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error)
	GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error)
	HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error)
	UpdateGameStatus(ctx context.Context, gameKeySecret string, status string) error
	ArchiveFinishedGame(ctx context.Context, gameKeySecret string, result engine.Result, sgfText string) error
	SaveSGFToRedis(ctx context.Context, key string, sgfText string) error
	LoadSGFFromRedis(ctx context.Context, key string) (string, error)
	DeleteSGFFromRedis(ctx context.Context, key string) error
}

// UserStats is the slice of the auth usecase the game flow needs for
// win/loss accounting.
type UserStats interface {
	AddWin(ctx context.Context, userID string) error
	AddLose(ctx context.Context, userID string) error
}

type GameUseCase struct {
	store GameStore
	users UserStats
}

func NewGameUseCase(store GameStore, users UserStats) *GameUseCase {
	return &GameUseCase{store: store, users: users}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest, creatorID string) (game.Game, error) {
	// Engine construction validates the board configuration up front, so a
	// bad request never produces a game document.
	if _, err := engine.New(req.BoardSize, req.Komi); err != nil {
		return game.Game{}, errs.ErrCreateGameFailed
	}

	gameKeySecret, gameKeyPublic := g.store.GenerateGameKeys(ctx)

	newGame := game.Game{
		GameKeySecret: gameKeySecret,
		GameKeyPublic: gameKeyPublic,
		BoardSize:     req.BoardSize,
		Komi:          req.Komi,
		Status:        statuses.StatusWaitOpponent,
		CreatedAt:     time.Now(),
	}
	if req.IsCreatorBlack {
		newGame.PlayerBlack = creatorID
	} else {
		newGame.PlayerWhite = creatorID
	}

	if ok := g.store.PutGameToMongoDatabase(ctx, newGame); !ok {
		return game.Game{}, errs.ErrCreateGameFailed
	}
	return newGame, nil
}

func (g *GameUseCase) JoinGame(ctx context.Context, gameKeyPublic string, userID string) (game.Game, error) {
	updatedGame, err := g.store.AddPlayer(ctx, userID, gameKeyPublic)
	if err != nil {
		return game.Game{}, err
	}

	// Both seats are known now: write the SGF root for the live record.
	minSGF := PrepareSgfFile(updatedGame)
	if err := g.store.SaveSGFToRedis(ctx, updatedGame.GameKeySecret, SerializeSGF(&minSGF)); err != nil {
		return game.Game{}, err
	}

	return updatedGame, nil
}

func (g *GameUseCase) GetGameInfoByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	play, err := g.store.GetGameByPublicKey(ctx, gameKeyPublic)
	if err != nil {
		return game.Game{}, err
	}

	if sgfText, err := g.store.LoadSGFFromRedis(ctx, play.GameKeySecret); err == nil {
		play.Sgf = sgfText
	}
	play.GameKeySecret = "" // never leak the secret over the info endpoint
	return play, nil
}

func (g *GameUseCase) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	return g.store.GetGameByPublicKey(ctx, gameKeyPublic)
}

func (g *GameUseCase) HasUserActiveGamesByUserId(ctx context.Context, userID string) (bool, error) {
	return g.store.HasUserActiveGameByUserId(ctx, userID)
}

// RecordMove appends an accepted engine move to the live SGF record and
// returns the updated text. Resignations end the record and are not
// appended as nodes.
func (g *GameUseCase) RecordMove(ctx context.Context, gameKeySecret string, move engine.Move) (string, error) {
	sgfText, err := g.store.LoadSGFFromRedis(ctx, gameKeySecret)
	if err != nil {
		return "", err
	}
	if move.Type == engine.Resign {
		return sgfText, nil
	}

	newSgfText := AppendMoveToSgf(sgfText, move)
	if err := g.store.SaveSGFToRedis(ctx, gameKeySecret, newSgfText); err != nil {
		return "", err
	}
	return newSgfText, nil
}

// SyncStatus mirrors the engine phase into the stored game document.
func (g *GameUseCase) SyncStatus(ctx context.Context, gameKeySecret string, phase engine.Phase) error {
	switch phase {
	case engine.Playing:
		return g.store.UpdateGameStatus(ctx, gameKeySecret, statuses.StatusActive)
	case engine.Scoring:
		return g.store.UpdateGameStatus(ctx, gameKeySecret, statuses.StatusScoring)
	case engine.Finished:
		return g.store.UpdateGameStatus(ctx, gameKeySecret, statuses.StatusCompleted)
	}
	return nil
}

// FinishGame archives the final snapshot: the SGF gets its result property,
// the game document is completed in Mongo, the live record leaves Redis and
// both players' win/loss counters are updated.
func (g *GameUseCase) FinishGame(ctx context.Context, play game.Game, snap engine.Snapshot) error {
	if snap.Result == nil {
		return errs.ErrInternal
	}

	sgfText, err := g.store.LoadSGFFromRedis(ctx, play.GameKeySecret)
	if err != nil {
		sgfText = SerializeSGF(&sgf.SGF{Root: &sgf.GameTree{}})
	}
	sgfText = strings.Replace(sgfText, "RE[]", "RE["+ResultString(snap)+"]", 1)

	if err := g.store.ArchiveFinishedGame(ctx, play.GameKeySecret, *snap.Result, sgfText); err != nil {
		return err
	}
	if err := g.store.DeleteSGFFromRedis(ctx, play.GameKeySecret); err != nil {
		return err
	}

	switch snap.Result.Winner {
	case engine.Black:
		g.recordOutcome(ctx, play.PlayerBlack, play.PlayerWhite)
	case engine.White:
		g.recordOutcome(ctx, play.PlayerWhite, play.PlayerBlack)
	}
	return nil
}

func (g *GameUseCase) recordOutcome(ctx context.Context, winnerID, loserID string) {
	if winnerID != "" {
		_ = g.users.AddWin(ctx, winnerID)
	}
	if loserID != "" {
		_ = g.users.AddLose(ctx, loserID)
	}
}

// PrepareSgfFile builds the root node of the live record from the game
// configuration.
func PrepareSgfFile(gameData game.Game) sgf.SGF {
	return sgf.SGF{
		Root: &sgf.GameTree{
			Nodes: []sgf.Node{
				{
					Properties: map[string][]string{
						"FF": {"4"},
						"GM": {"1"},
						"SZ": {strconv.Itoa(gameData.BoardSize)},
						"PB": {gameData.PlayerBlack},
						"PW": {gameData.PlayerWhite},
						"DT": {gameData.CreatedAt.Format("2006-01-02")},
						"RE": {""},
						"KM": {strconv.FormatFloat(gameData.Komi, 'f', 1, 64)},
						"RU": {"Chinese"},
					},
				},
			},
		},
	}
}

func SerializeSGF(s *sgf.SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *sgf.GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		// Root properties come out in a fixed order for stable records.
		orderedKeys := []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "C", "B", "W"}
		used := make(map[string]bool)
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				for _, v := range values {
					builder.WriteString(fmt.Sprintf("%s[%s]", key, v))
				}
			}
		}

		for key, values := range node.Properties {
			if !used[key] {
				for _, v := range values {
					builder.WriteString(fmt.Sprintf("%s[%s]", key, v))
				}
			}
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

// AppendMoveToSgf adds one move node to a serialized record. A pass is an
// empty coordinate per the SGF convention.
func AppendMoveToSgf(sgfText string, move engine.Move) string {
	if strings.HasSuffix(sgfText, ")") {
		sgfText = sgfText[:len(sgfText)-1]
	}
	return sgfText + fmt.Sprintf(";%s[%s])", sgfColor(move.Player), sgfCoords(move))
}

func sgfColor(player engine.Stone) string {
	if player == engine.White {
		return "W"
	}
	return "B"
}

func sgfCoords(move engine.Move) string {
	if move.Type != engine.PlaceStone {
		return ""
	}
	return string([]byte{byte('a' + move.Pos.X), byte('a' + move.Pos.Y)})
}

// ResultString renders the outcome in SGF notation: B+R, W+3.5, Draw.
func ResultString(snap engine.Snapshot) string {
	r := snap.Result
	if r == nil {
		return ""
	}
	if snap.ResignedPlayer != engine.Empty {
		if r.Winner == engine.Black {
			return "B+R"
		}
		return "W+R"
	}
	switch r.Winner {
	case engine.Black:
		return fmt.Sprintf("B+%s", strconv.FormatFloat(r.BlackPoints-r.WhitePoints, 'f', -1, 64))
	case engine.White:
		return fmt.Sprintf("W+%s", strconv.FormatFloat(r.WhitePoints-r.BlackPoints, 'f', -1, 64))
	default:
		return "Draw"
	}
}
