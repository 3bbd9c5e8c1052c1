package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gobaduk/internal/domain/engine"
	"gobaduk/internal/domain/game"
	errs "gobaduk/internal/errors"
	"gobaduk/internal/statuses"
)

type fakeStore struct {
	games    map[string]game.Game // by secret key
	sgf      map[string]string
	archived map[string]engine.Result
	keyN     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:    make(map[string]game.Game),
		sgf:      make(map[string]string),
		archived: make(map[string]engine.Result),
	}
}

func (f *fakeStore) GenerateGameKeys(ctx context.Context) (string, string) {
	f.keyN++
	return "secret-" + strings.Repeat("x", f.keyN), "00001"
}

func (f *fakeStore) PutGameToMongoDatabase(ctx context.Context, g game.Game) bool {
	f.games[g.GameKeySecret] = g
	return true
}

func (f *fakeStore) AddPlayer(ctx context.Context, userID, gameKeyPublic string) (game.Game, error) {
	for key, g := range f.games {
		if g.GameKeyPublic != gameKeyPublic {
			continue
		}
		switch {
		case g.PlayerBlack == userID || g.PlayerWhite == userID:
		case g.PlayerBlack == "":
			g.PlayerBlack = userID
		case g.PlayerWhite == "":
			g.PlayerWhite = userID
		default:
			return game.Game{}, errs.ErrGameFull
		}
		g.Status = statuses.StatusActive
		f.games[key] = g
		return g, nil
	}
	return game.Game{}, errs.ErrGameNotFound
}

func (f *fakeStore) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	for _, g := range f.games {
		if g.GameKeyPublic == gameKeyPublic {
			return g, nil
		}
	}
	return game.Game{}, errs.ErrGameNotFound
}

func (f *fakeStore) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	g, ok := f.games[gameKeySecret]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}
	return g, nil
}

func (f *fakeStore) HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error) {
	for _, g := range f.games {
		if g.Status == statuses.StatusCompleted {
			continue
		}
		if g.PlayerBlack == userID || g.PlayerWhite == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateGameStatus(ctx context.Context, gameKeySecret, status string) error {
	g, ok := f.games[gameKeySecret]
	if !ok {
		return errs.ErrGameNotFound
	}
	g.Status = status
	f.games[gameKeySecret] = g
	return nil
}

func (f *fakeStore) ArchiveFinishedGame(ctx context.Context, gameKeySecret string, result engine.Result, sgfText string) error {
	g, ok := f.games[gameKeySecret]
	if !ok {
		return errs.ErrGameNotFound
	}
	g.Status = statuses.StatusCompleted
	g.Sgf = sgfText
	g.Result = &result
	f.games[gameKeySecret] = g
	f.archived[gameKeySecret] = result
	return nil
}

func (f *fakeStore) SaveSGFToRedis(ctx context.Context, key, sgfText string) error {
	f.sgf[key] = sgfText
	return nil
}

func (f *fakeStore) LoadSGFFromRedis(ctx context.Context, key string) (string, error) {
	text, ok := f.sgf[key]
	if !ok {
		return "", errs.ErrGameNotFound
	}
	return text, nil
}

func (f *fakeStore) DeleteSGFFromRedis(ctx context.Context, key string) error {
	delete(f.sgf, key)
	return nil
}

type fakeUsers struct {
	wins   []string
	losses []string
}

func (f *fakeUsers) AddWin(ctx context.Context, userID string) error {
	f.wins = append(f.wins, userID)
	return nil
}

func (f *fakeUsers) AddLose(ctx context.Context, userID string) error {
	f.losses = append(f.losses, userID)
	return nil
}

func setupGame(t *testing.T) (*GameUseCase, *fakeStore, *fakeUsers, game.Game) {
	t.Helper()
	store := newFakeStore()
	users := &fakeUsers{}
	uc := NewGameUseCase(store, users)

	created, err := uc.CreateGame(context.Background(), game.CreateGameRequest{
		BoardSize:      9,
		Komi:           6.5,
		IsCreatorBlack: true,
	}, "user-black")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	joined, err := uc.JoinGame(context.Background(), created.GameKeyPublic, "user-white")
	if err != nil {
		t.Fatalf("join game: %v", err)
	}
	return uc, store, users, joined
}

func TestCreateGameRejectsUnsupportedBoard(t *testing.T) {
	uc := NewGameUseCase(newFakeStore(), &fakeUsers{})
	_, err := uc.CreateGame(context.Background(), game.CreateGameRequest{BoardSize: 11}, "u1")
	if !errors.Is(err, errs.ErrCreateGameFailed) {
		t.Fatalf("err = %v, want ErrCreateGameFailed", err)
	}
}

func TestCreateGameSeatsCreatorByColor(t *testing.T) {
	uc := NewGameUseCase(newFakeStore(), &fakeUsers{})
	created, err := uc.CreateGame(context.Background(), game.CreateGameRequest{
		BoardSize: 13, Komi: 7.5, IsCreatorBlack: false,
	}, "u1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if created.PlayerWhite != "u1" || created.PlayerBlack != "" {
		t.Fatalf("creator seated as black=%q white=%q, want white seat", created.PlayerBlack, created.PlayerWhite)
	}
	if created.Status != statuses.StatusWaitOpponent {
		t.Fatalf("status = %q, want %q", created.Status, statuses.StatusWaitOpponent)
	}
}

func TestJoinGameWritesSgfRoot(t *testing.T) {
	_, store, _, joined := setupGame(t)

	sgfText := store.sgf[joined.GameKeySecret]
	for _, want := range []string{"SZ[9]", "KM[6.5]", "PB[user-black]", "PW[user-white]", "RU[Chinese]"} {
		if !strings.Contains(sgfText, want) {
			t.Errorf("sgf root %q missing %s", sgfText, want)
		}
	}
}

func TestRecordMoveAppendsNodes(t *testing.T) {
	uc, _, _, joined := setupGame(t)
	ctx := context.Background()

	text, err := uc.RecordMove(ctx, joined.GameKeySecret, engine.Move{
		Player: engine.Black,
		Type:   engine.PlaceStone,
		Pos:    engine.Position{X: 4, Y: 2},
	})
	if err != nil {
		t.Fatalf("record place: %v", err)
	}
	if !strings.HasSuffix(text, ";B[ec])") {
		t.Fatalf("sgf after place = %q, want suffix ;B[ec])", text)
	}

	text, err = uc.RecordMove(ctx, joined.GameKeySecret, engine.Move{
		Player: engine.White,
		Type:   engine.Pass,
	})
	if err != nil {
		t.Fatalf("record pass: %v", err)
	}
	if !strings.HasSuffix(text, ";W[])") {
		t.Fatalf("sgf after pass = %q, want suffix ;W[])", text)
	}
}

func TestRecordMoveSkipsResign(t *testing.T) {
	uc, store, _, joined := setupGame(t)

	before := store.sgf[joined.GameKeySecret]
	text, err := uc.RecordMove(context.Background(), joined.GameKeySecret, engine.Move{
		Player: engine.Black,
		Type:   engine.Resign,
	})
	if err != nil {
		t.Fatalf("record resign: %v", err)
	}
	if text != before {
		t.Fatal("resign modified the sgf record")
	}
}

func TestFinishGameArchivesAndUpdatesStats(t *testing.T) {
	uc, store, users, joined := setupGame(t)
	ctx := context.Background()

	eng, err := engine.New(9, 6.5)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if _, err := eng.MakeMove(engine.Black, engine.Resign, engine.Position{}); err != nil {
		t.Fatalf("resign: %v", err)
	}

	if err := uc.FinishGame(ctx, joined, eng.Snapshot()); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	stored := store.games[joined.GameKeySecret]
	if stored.Status != statuses.StatusCompleted {
		t.Fatalf("status = %q, want completed", stored.Status)
	}
	if !strings.Contains(stored.Sgf, "RE[W+R]") {
		t.Fatalf("archived sgf %q missing RE[W+R]", stored.Sgf)
	}
	if _, live := store.sgf[joined.GameKeySecret]; live {
		t.Fatal("live sgf record not removed after archiving")
	}
	if len(users.wins) != 1 || users.wins[0] != "user-white" {
		t.Fatalf("wins = %v, want [user-white]", users.wins)
	}
	if len(users.losses) != 1 || users.losses[0] != "user-black" {
		t.Fatalf("losses = %v, want [user-black]", users.losses)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		name string
		snap engine.Snapshot
		want string
	}{
		{
			"black by points",
			engine.Snapshot{Result: &engine.Result{BlackPoints: 40, WhitePoints: 36.5, Winner: engine.Black}},
			"B+3.5",
		},
		{
			"white by points",
			engine.Snapshot{Result: &engine.Result{BlackPoints: 30, WhitePoints: 37, Winner: engine.White}},
			"W+7",
		},
		{
			"white by resignation",
			engine.Snapshot{
				Result:         &engine.Result{Winner: engine.White},
				ResignedPlayer: engine.Black,
			},
			"W+R",
		},
		{
			"draw",
			engine.Snapshot{Result: &engine.Result{BlackPoints: 36, WhitePoints: 36, Winner: engine.Empty}},
			"Draw",
		},
	}
	for _, tt := range tests {
		if got := ResultString(tt.snap); got != tt.want {
			t.Errorf("%s: ResultString = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGetGameInfoHidesSecretKey(t *testing.T) {
	uc, _, _, joined := setupGame(t)

	info, err := uc.GetGameInfoByPublicKey(context.Background(), joined.GameKeyPublic)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.GameKeySecret != "" {
		t.Fatal("info response leaks the secret key")
	}
	if info.Sgf == "" {
		t.Fatal("info response missing the live sgf record")
	}
}
