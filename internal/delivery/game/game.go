package game

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gobaduk/internal/bootstrap"
	"gobaduk/internal/delivery/auth"
	"gobaduk/internal/domain/engine"
	"gobaduk/internal/domain/game"
	"gobaduk/internal/httpresponse"
	gameuc "gobaduk/internal/usecase/game"
	"gobaduk/internal/utils"
)

type GameHandler struct {
	cfg         bootstrap.Config
	log         *zap.SugaredLogger
	gameUC      *gameuc.GameUseCase
	authHandler *auth.AuthHandler

	roomsMu sync.Mutex
	rooms   map[string]*room // by public game key
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// room holds the live state of one match: the engine instance and both
// player connections. All engine access goes through mu, which is the
// serialization point the engine relies on.
type room struct {
	mu    sync.Mutex
	play  game.Game
	eng   *engine.Engine
	conns map[engine.Stone]*websocket.Conn
}

// wsRequest is the message envelope clients send over the relay socket.
type wsRequest struct {
	Action string `json:"action"` // place | pass | resign | mark_dead | resume | finalize
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type wsError struct {
	Error string `json:"error"`
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase, authHandler *auth.AuthHandler) *GameHandler {
	return &GameHandler{
		cfg:         cfg,
		log:         log,
		gameUC:      gameUC,
		authHandler: authHandler,
		rooms:       make(map[string]*room),
	}
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("HandleNewGame: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "Invalid JSON: " + err.Error()})
		return
	}

	ctx := r.Context()

	alreadyInGame, err := g.gameUC.HasUserActiveGamesByUserId(ctx, userID)
	if err != nil {
		g.log.Error("HandleNewGame: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}
	if alreadyInGame {
		g.log.Errorf("HandleNewGame: user %s already has an active game", userID)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "user already has an active game"})
		return
	}

	created, err := g.gameUC.CreateGame(ctx, req, userID)
	if err != nil {
		g.log.Error("HandleNewGame: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	g.log.Infof("new game created with public key %s", created.GameKeyPublic)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.GameCreateResponse{
		GameKeyPublic: created.GameKeyPublic,
		GameKeySecret: created.GameKeySecret,
	})
}

func (g *GameHandler) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var req game.GameJoinRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil || req.GameKeyPublic == "" {
		g.log.Error("HandleJoinGame: invalid JSON")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "invalid JSON"})
		return
	}

	ctx := r.Context()

	joined, err := g.gameUC.JoinGame(ctx, req.GameKeyPublic, userID)
	if err != nil {
		g.log.Error("HandleJoinGame: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	g.log.Infof("user %s joined game %s", userID, req.GameKeyPublic)
	joined.GameKeySecret = ""
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, joined)
}

func (g *GameHandler) HandleGameInfo(w http.ResponseWriter, r *http.Request) {
	var req game.GameInfoRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil || req.GameKeyPublic == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "invalid JSON"})
		return
	}

	info, err := g.gameUC.GetGameInfoByPublicKey(r.Context(), req.GameKeyPublic)
	if err != nil {
		g.log.Error("HandleGameInfo: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, info)
}

// HandleStartGame upgrades to a websocket and attaches the player to the
// game room. The relay forwards every accepted engine mutation to both
// players and every rejection back to its sender only.
func (g *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	gameKey := r.URL.Query().Get("game_key")
	if gameKey == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "game_key query parameter is required"})
		return
	}

	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()

	play, err := g.gameUC.GetGameByPublicKey(ctx, gameKey)
	if err != nil {
		g.log.Error("HandleStartGame: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	color := play.ColorOf(userID)
	if color == engine.Empty {
		g.log.Errorf("HandleStartGame: user %s is not seated in game %s", userID, gameKey)
		httpresponse.WriteResponseWithStatus(w, http.StatusForbidden,
			httpresponse.ErrorResponse{ErrorDescription: "user is not a player of this game"})
		return
	}

	rm, err := g.roomFor(gameKey, play)
	if err != nil {
		g.log.Error("HandleStartGame: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("HandleStartGame: upgrade error: ", err)
		return
	}

	defer g.detach(gameKey, rm, color, conn)
	if err := g.attach(rm, color, conn, play); err != nil {
		g.log.Error("HandleStartGame: initial state write error: ", err)
		return
	}

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			g.log.Infof("player %s left game %s: %v", userID, gameKey, err)
			return
		}
		g.dispatch(rm, color, conn, req)
	}
}

// roomFor returns the live room for the game, creating the engine on first
// access. Seat information is refreshed on every connect because the
// opponent may have joined after the room was created.
func (g *GameHandler) roomFor(gameKey string, play game.Game) (*room, error) {
	g.roomsMu.Lock()
	defer g.roomsMu.Unlock()

	rm, ok := g.rooms[gameKey]
	if !ok {
		eng, err := engine.New(play.BoardSize, play.Komi)
		if err != nil {
			return nil, err
		}
		rm = &room{
			play:  play,
			eng:   eng,
			conns: make(map[engine.Stone]*websocket.Conn),
		}
		g.rooms[gameKey] = rm
	}
	return rm, nil
}

// attach registers the connection and sends it the current state, so late
// joiners and reconnecting players catch up at once. The snapshot write
// stays under mu: a broadcast from the opponent must not interleave with it
// on the same connection.
func (g *GameHandler) attach(rm *room, color engine.Stone, conn *websocket.Conn, play game.Game) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.play = play
	if old := rm.conns[color]; old != nil {
		old.WriteMessage(websocket.TextMessage, []byte(`{"error":"replaced by a new connection"}`))
		old.Close()
	}
	rm.conns[color] = conn

	return conn.WriteJSON(game.GameStateResponse{State: rm.eng.Snapshot()})
}

func (g *GameHandler) detach(gameKey string, rm *room, color engine.Stone, conn *websocket.Conn) {
	conn.Close()

	rm.mu.Lock()
	if rm.conns[color] == conn {
		delete(rm.conns, color)
	}
	empty := len(rm.conns) == 0
	finished := rm.eng.Phase() == engine.Finished
	rm.mu.Unlock()

	if empty && finished {
		g.roomsMu.Lock()
		delete(g.rooms, gameKey)
		g.roomsMu.Unlock()
	}
}

// dispatch runs one client request against the engine under the room lock
// and fans out the outcome.
func (g *GameHandler) dispatch(rm *room, color engine.Stone, conn *websocket.Conn, req wsRequest) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	ctx := context.Background()
	phaseBefore := rm.eng.Phase()

	var (
		move    *engine.Move
		opErr   error
		sgfText string
	)

	switch req.Action {
	case "place", "pass", "resign":
		moveType, _ := engine.ParseMoveType(req.Action)
		mv, err := rm.eng.MakeMove(color, moveType, engine.Position{X: req.X, Y: req.Y})
		if err != nil {
			opErr = err
			break
		}
		move = &mv
		sgfText, err = g.gameUC.RecordMove(ctx, rm.play.GameKeySecret, mv)
		if err != nil {
			g.log.Error("dispatch: failed to record move: ", err)
		}
	case "mark_dead":
		opErr = rm.eng.MarkDeadStones(engine.Position{X: req.X, Y: req.Y})
	case "resume":
		opErr = rm.eng.ResumePlaying()
	case "finalize":
		_, opErr = rm.eng.FinalizeGame()
	default:
		opErr = engine.ErrInvalidOperation
	}

	if opErr != nil {
		// Rule violations go back to the offender only; the room lives on.
		if err := conn.WriteJSON(wsError{Error: opErr.Error()}); err != nil {
			g.log.Error("dispatch: error write failed: ", err)
		}
		return
	}

	snap := rm.eng.Snapshot()

	if snap.Phase != phaseBefore && snap.Phase != engine.Finished {
		if err := g.gameUC.SyncStatus(ctx, rm.play.GameKeySecret, snap.Phase); err != nil {
			g.log.Error("dispatch: status sync failed: ", err)
		}
	}

	resp := game.GameStateResponse{Move: move, State: snap, SGF: sgfText}
	for c, peer := range rm.conns {
		if err := peer.WriteJSON(resp); err != nil {
			g.log.Errorf("dispatch: write to %v failed: %v", c, err)
			peer.Close()
			delete(rm.conns, c)
		}
	}

	// Archiving happens off the move path; the engine call has already
	// returned its result to both players.
	if snap.Phase == engine.Finished {
		play := rm.play
		go func() {
			if err := g.gameUC.FinishGame(context.Background(), play, snap); err != nil {
				g.log.Error("failed to archive finished game: ", err)
			}
		}()
	}
}
