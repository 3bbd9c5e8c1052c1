package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gobaduk/internal/adapters"
	"gobaduk/internal/bootstrap"
	authDelivery "gobaduk/internal/delivery/auth"
	gameDelivery "gobaduk/internal/delivery/game"
	ownMiddleware "gobaduk/internal/middleware"
	repo "gobaduk/internal/repository"
	authUC "gobaduk/internal/usecase/auth"
	gameUC "gobaduk/internal/usecase/game"
)

type mainDeliveryHandler struct {
	auth *authDelivery.AuthHandler
	game *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	port := ":" + cfg.ServerPort
	logger.Infof("Server is running on port %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/register", h.auth.Register)
	r.Post("/login", h.auth.Login)
	r.Post("/logout", h.auth.Logout)
	r.Post("/getUserById", h.auth.GetUserByID)
	r.Post("/NewGame", h.game.HandleNewGame)
	r.Post("/JoinGame", h.game.HandleJoinGame)
	r.Post("/getGameInfo", h.game.HandleGameInfo)
	r.Get("/startGame", h.game.HandleStartGame)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour

	authUsecase := authUC.NewAuthUsecaseHandler(
		repo.NewMongoUserStorage(databaseAdapters.mongoAdapter, log),
		repo.NewSessionRedisStorage(databaseAdapters.redisAdapter.GetClient(), log, sessionTTL),
	)
	authDeliveryHandler := authDelivery.NewAuthHandler(authUsecase, log, sessionTTL)

	gameUsecase := gameUC.NewGameUseCase(
		repo.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database),
		authUsecase,
	)
	gameDeliveryHandler := gameDelivery.NewGameHandler(cfg, log, gameUsecase, authDeliveryHandler)

	return &mainDeliveryHandler{
		auth: authDeliveryHandler,
		game: gameDeliveryHandler,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // give connections time to close
}
