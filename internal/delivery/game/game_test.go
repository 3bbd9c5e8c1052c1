package game

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gobaduk/internal/bootstrap"
	"gobaduk/internal/delivery/auth"
	"gobaduk/internal/domain/engine"
	"gobaduk/internal/domain/game"
	"gobaduk/internal/domain/user"
	errs "gobaduk/internal/errors"
	"gobaduk/internal/statuses"
	authUC "gobaduk/internal/usecase/auth"
	gameuc "gobaduk/internal/usecase/game"
)

type relayStore struct {
	mu    sync.Mutex
	games map[string]game.Game // by secret key
	sgf   map[string]string
}

func (f *relayStore) GenerateGameKeys(ctx context.Context) (string, string) {
	return "sec", "pub"
}

func (f *relayStore) PutGameToMongoDatabase(ctx context.Context, g game.Game) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[g.GameKeySecret] = g
	return true
}

func (f *relayStore) AddPlayer(ctx context.Context, userID, gameKeyPublic string) (game.Game, error) {
	return game.Game{}, errs.ErrGameNotFound
}

func (f *relayStore) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.games {
		if g.GameKeyPublic == gameKeyPublic {
			return g, nil
		}
	}
	return game.Game{}, errs.ErrGameNotFound
}

func (f *relayStore) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameKeySecret]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}
	return g, nil
}

func (f *relayStore) HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error) {
	return false, nil
}

func (f *relayStore) UpdateGameStatus(ctx context.Context, gameKeySecret, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameKeySecret]
	if !ok {
		return errs.ErrGameNotFound
	}
	g.Status = status
	f.games[gameKeySecret] = g
	return nil
}

func (f *relayStore) ArchiveFinishedGame(ctx context.Context, gameKeySecret string, result engine.Result, sgfText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameKeySecret]
	if !ok {
		return errs.ErrGameNotFound
	}
	g.Status = statuses.StatusCompleted
	g.Result = &result
	g.Sgf = sgfText
	f.games[gameKeySecret] = g
	return nil
}

func (f *relayStore) SaveSGFToRedis(ctx context.Context, key, sgfText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sgf[key] = sgfText
	return nil
}

func (f *relayStore) LoadSGFFromRedis(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.sgf[key]
	if !ok {
		return "", errs.ErrGameNotFound
	}
	return text, nil
}

func (f *relayStore) DeleteSGFFromRedis(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sgf, key)
	return nil
}

type relayUsers struct{}

func (relayUsers) CheckExists(context.Context, string) bool { return false }
func (relayUsers) GetUser(context.Context, string) (user.User, bool) { return user.User{}, false }
func (relayUsers) GetUserByID(context.Context, string) (user.User, bool) { return user.User{}, false }
func (relayUsers) CreateUser(context.Context, user.User) (string, error) { return "", nil }
func (relayUsers) AddWin(context.Context, string) error { return nil }
func (relayUsers) AddLose(context.Context, string) error { return nil }

type relaySessions struct{ m map[string]string }

func (s relaySessions) GetUserIdBySession(_ context.Context, sessionID string) (string, bool) {
	userID, ok := s.m[sessionID]
	return userID, ok
}
func (s relaySessions) StoreSession(_ context.Context, sessionID, userID string) {
	s.m[sessionID] = userID
}
func (s relaySessions) DeleteSession(_ context.Context, sessionID string) bool {
	delete(s.m, sessionID)
	return true
}

// statePayload mirrors GameStateResponse with enum fields decoded as their
// wire strings.
type statePayload struct {
	Move *struct {
		Player string          `json:"player"`
		Type   string          `json:"type"`
		Pos    engine.Position `json:"pos"`
	} `json:"move"`
	State struct {
		BoardSize     int        `json:"board_size"`
		Board         [][]string `json:"board"`
		CurrentPlayer string     `json:"current_player"`
		Phase         string     `json:"phase"`
	} `json:"state"`
	SGF string `json:"sgf"`
}

func newRelayServer(t *testing.T) *httptest.Server {
	t.Helper()

	seated := game.Game{
		GameKeySecret: "sec",
		GameKeyPublic: "pub",
		Status:        statuses.StatusActive,
		BoardSize:     9,
		Komi:          6.5,
		PlayerBlack:   "black-user",
		PlayerWhite:   "white-user",
		CreatedAt:     time.Now(),
	}
	record := gameuc.PrepareSgfFile(seated)
	store := &relayStore{
		games: map[string]game.Game{"sec": seated},
		sgf:   map[string]string{"sec": gameuc.SerializeSGF(&record)},
	}

	log := zap.NewNop().Sugar()
	authUsecase := authUC.NewAuthUsecaseHandler(relayUsers{}, relaySessions{m: map[string]string{
		"black-session": "black-user",
		"white-session": "white-user",
	}})
	handler := NewGameHandler(
		bootstrap.Config{},
		log,
		gameuc.NewGameUseCase(store, authUsecase),
		auth.NewAuthHandler(authUsecase, log, time.Hour),
	)

	ts := httptest.NewServer(http.HandlerFunc(handler.HandleStartGame))
	t.Cleanup(ts.Close)
	return ts
}

func dialGame(t *testing.T, ts *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "?game_key=pub"
	header := http.Header{}
	header.Set("Cookie", "sessionID="+session)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial as %s: %v", session, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) statePayload {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var p statePayload
	if err := conn.ReadJSON(&p); err != nil {
		t.Fatalf("read state: %v", err)
	}
	return p
}

func TestStartGameSendsSnapshotOnConnect(t *testing.T) {
	ts := newRelayServer(t)

	conn := dialGame(t, ts, "black-session")
	p := readState(t, conn)

	if p.Move != nil {
		t.Errorf("welcome message carries a move: %+v", p.Move)
	}
	if p.State.BoardSize != 9 || p.State.Phase != "playing" {
		t.Errorf("welcome state = size %d phase %q, want 9 playing", p.State.BoardSize, p.State.Phase)
	}
	if p.State.CurrentPlayer != "black" {
		t.Errorf("current player = %q, want black", p.State.CurrentPlayer)
	}
}

func TestRelayBroadcastsMoveToBothPlayers(t *testing.T) {
	ts := newRelayServer(t)

	black := dialGame(t, ts, "black-session")
	readState(t, black)
	white := dialGame(t, ts, "white-session")
	readState(t, white)

	if err := black.WriteJSON(map[string]any{"action": "place", "x": 0, "y": 0}); err != nil {
		t.Fatalf("send move: %v", err)
	}

	for _, conn := range []*websocket.Conn{black, white} {
		p := readState(t, conn)
		if p.Move == nil {
			t.Fatal("broadcast without a move")
		}
		if p.Move.Player != "black" || p.Move.Type != "place" {
			t.Errorf("move = %s %s, want black place", p.Move.Player, p.Move.Type)
		}
		if p.Move.Pos != (engine.Position{X: 0, Y: 0}) {
			t.Errorf("move pos = %+v, want origin", p.Move.Pos)
		}
		if p.State.Board[0][0] != "black" {
			t.Errorf("board[0][0] = %q, want black", p.State.Board[0][0])
		}
		if !strings.Contains(p.SGF, ";B[aa]") {
			t.Errorf("sgf %q missing the recorded move", p.SGF)
		}
	}
}

func TestRelayReportsViolationToSenderOnly(t *testing.T) {
	ts := newRelayServer(t)

	black := dialGame(t, ts, "black-session")
	readState(t, black)
	white := dialGame(t, ts, "white-session")
	readState(t, white)

	if err := black.WriteJSON(map[string]any{"action": "place", "x": 4, "y": 4}); err != nil {
		t.Fatalf("send move: %v", err)
	}
	readState(t, black)
	readState(t, white)

	// White tries the occupied point; the rejection goes back to white and
	// the game stays live for both.
	if err := white.WriteJSON(map[string]any{"action": "place", "x": 4, "y": 4}); err != nil {
		t.Fatalf("send move: %v", err)
	}
	white.SetReadDeadline(time.Now().Add(5 * time.Second))
	var violation struct {
		Error string `json:"error"`
	}
	if err := white.ReadJSON(&violation); err != nil {
		t.Fatalf("read violation: %v", err)
	}
	if violation.Error != engine.ErrOccupied.Error() {
		t.Errorf("violation = %q, want %q", violation.Error, engine.ErrOccupied)
	}

	if err := white.WriteJSON(map[string]any{"action": "place", "x": 5, "y": 5}); err != nil {
		t.Fatalf("send move: %v", err)
	}
	if p := readState(t, black); p.Move == nil || p.Move.Player != "white" {
		t.Fatalf("black did not receive white's legal move, got %+v", p.Move)
	}
}

func TestReconnectReceivesCurrentBoard(t *testing.T) {
	ts := newRelayServer(t)

	black := dialGame(t, ts, "black-session")
	readState(t, black)
	if err := black.WriteJSON(map[string]any{"action": "place", "x": 2, "y": 3}); err != nil {
		t.Fatalf("send move: %v", err)
	}
	readState(t, black)

	// A fresh connection for the same seat replaces the old one and is
	// greeted with the board as it stands.
	again := dialGame(t, ts, "black-session")
	p := readState(t, again)
	if p.State.Board[3][2] != "black" {
		t.Errorf("board[3][2] = %q after reconnect, want black", p.State.Board[3][2])
	}
}
