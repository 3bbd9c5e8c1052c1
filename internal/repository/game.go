package repo

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gobaduk/internal/bootstrap"
	"gobaduk/internal/domain/engine"
	"gobaduk/internal/domain/game"
	errs "gobaduk/internal/errors"
	"gobaduk/internal/statuses"
)

const mongoTimeout = 5 * time.Second

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

// GenerateGameKeys returns a fresh secret key and a short public key the
// creator shares with the opponent. The public key is re-derived until it is
// unique among stored games.
func (g *GameRepository) GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string) {
	gameKeySecret = uuid.New().String()
	salt := gameKeySecret
	for {
		gameKeyPublic = generateHash(salt)
		if g.CheckPublicKeyIsUniq(ctx, gameKeyPublic) {
			return gameKeySecret, gameKeyPublic
		}
		salt = uuid.New().String()
	}
}

func generateHash(s string) string {
	h := md5.New()
	h.Write([]byte(s))
	hashBytes := h.Sum(nil)
	number := binary.BigEndian.Uint32(hashBytes[:4])
	code := number % 100000
	return fmt.Sprintf("%05d", code)
}

func (g *GameRepository) CheckPublicKeyIsUniq(ctx context.Context, gameKeyPublic string) bool {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	err := collection.FindOne(ctx, bson.M{"game_key_public": gameKeyPublic}).Err()
	return errors.Is(err, mongo.ErrNoDocuments)
}

func (g *GameRepository) PutGameToMongoDatabase(ctx context.Context, gameData game.Game) bool {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	_, err := collection.InsertOne(ctx, gameData)
	if err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return false
	}

	g.log.Infof("game inserted successfully with public key: %s", gameData.GameKeyPublic)
	return true
}

// AddPlayer seats userID at the free color of the game and flips the status
// to active once both seats are taken. Joining a game the user already sits
// in is a no-op and returns the game unchanged.
func (g *GameRepository) AddPlayer(ctx context.Context, userID string, gameKeyPublic string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	filter := bson.M{"game_key_public": gameKeyPublic}

	var play game.Game
	if err := collection.FindOne(ctx, filter).Decode(&play); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return game.Game{}, errs.ErrGameNotFound
		}
		return game.Game{}, err
	}

	if play.PlayerBlack == userID || play.PlayerWhite == userID {
		return play, nil
	}

	set := bson.M{"status": statuses.StatusActive, "started_at": time.Now()}
	switch {
	case play.PlayerBlack == "":
		set["player_black"] = userID
	case play.PlayerWhite == "":
		set["player_white"] = userID
	default:
		return game.Game{}, errs.ErrGameFull
	}

	if _, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set}); err != nil {
		g.log.Errorf("failed to seat player %s in game %s: %v", userID, gameKeyPublic, err)
		return game.Game{}, err
	}

	if err := collection.FindOne(ctx, filter).Decode(&play); err != nil {
		return game.Game{}, err
	}

	g.log.Infof("player %s joined game %s", userID, gameKeyPublic)
	return play, nil
}

func (g *GameRepository) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")

	var foundGame game.Game
	err := collection.FindOne(ctx, bson.M{"game_key_public": gameKeyPublic}).Decode(&foundGame)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errs.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return game.Game{}, err
	}

	return foundGame, nil
}

func (g *GameRepository) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")

	var foundGame game.Game
	err := collection.FindOne(ctx, bson.M{"game_key_secret": gameKeySecret}).Decode(&foundGame)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errs.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return game.Game{}, err
	}

	return foundGame, nil
}

func (g *GameRepository) HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	filter := bson.M{
		"$and": []bson.M{
			{
				"$or": []bson.M{
					{"player_black": userID},
					{"player_white": userID},
				},
			},
			{
				"status": bson.M{
					"$ne": statuses.StatusCompleted,
				},
			},
		},
	}
	err := collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	} else if err != nil {
		g.log.Error(err)
		return false, err
	}

	return true, nil
}

// UpdateGameStatus mirrors an engine phase change into the game document.
func (g *GameRepository) UpdateGameStatus(ctx context.Context, gameKeySecret string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	_, err := collection.UpdateOne(ctx,
		bson.M{"game_key_secret": gameKeySecret},
		bson.M{"$set": bson.M{"status": status}})
	return err
}

// ArchiveFinishedGame stores the final result and SGF record and marks the
// game completed. This is the persistence collaborator consuming the final
// engine snapshot; it owns the stored layout, not the engine.
func (g *GameRepository) ArchiveFinishedGame(ctx context.Context, gameKeySecret string, result engine.Result, sgfText string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	collection := g.mongo.Collection("games")
	update := bson.M{
		"$set": bson.M{
			"status":      statuses.StatusCompleted,
			"result":      result,
			"sgf":         sgfText,
			"finished_at": time.Now(),
		},
	}
	res, err := collection.UpdateOne(ctx, bson.M{"game_key_secret": gameKeySecret}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}

	g.log.Infof("game %s archived", gameKeySecret)
	return nil
}

func (g *GameRepository) SaveSGFToRedis(ctx context.Context, key string, sgfText string) error {
	return g.redis.Set(ctx, "sgf:"+key, sgfText, 0).Err()
}

func (g *GameRepository) LoadSGFFromRedis(ctx context.Context, key string) (string, error) {
	text, err := g.redis.Get(ctx, "sgf:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrGameNotFound
	}
	return text, err
}

func (g *GameRepository) DeleteSGFFromRedis(ctx context.Context, key string) error {
	return g.redis.Del(ctx, "sgf:"+key).Err()
}
