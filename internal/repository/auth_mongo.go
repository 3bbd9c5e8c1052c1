package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gobaduk/internal/adapters"
	"gobaduk/internal/domain/user"
)

type MongoUserStorage struct {
	adapter *adapters.AdapterMongo
	log     *zap.SugaredLogger
}

func NewMongoUserStorage(adapter *adapters.AdapterMongo, log *zap.SugaredLogger) *MongoUserStorage {
	return &MongoUserStorage{adapter: adapter, log: log}
}

func (m *MongoUserStorage) CheckExists(ctx context.Context, username string) bool {
	_, ok := m.GetUser(ctx, username)
	return ok
}

func (m *MongoUserStorage) GetUser(ctx context.Context, username string) (user.User, bool) {
	collection := m.adapter.Database.Collection("users")

	var result user.User
	err := collection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Error(err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) GetUserByID(ctx context.Context, id string) (user.User, bool) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, false
	}

	collection := m.adapter.Database.Collection("users")

	var result user.User
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Error(err)
		}
		return user.User{}, false
	}
	return result, true
}

// CreateUser inserts a new account and returns its generated id.
func (m *MongoUserStorage) CreateUser(ctx context.Context, newUser user.User) (string, error) {
	collection := m.adapter.Database.Collection("users")

	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt

	res, err := collection.InsertOne(ctx, newUser)
	if err != nil {
		m.log.Errorf("failed to insert user %s: %v", newUser.Username, err)
		return "", err
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return objectID.Hex(), nil
}

func (m *MongoUserStorage) AddWin(ctx context.Context, userID string) error {
	return m.incStatistic(ctx, userID, "statistic.wins")
}

func (m *MongoUserStorage) AddLose(ctx context.Context, userID string) error {
	return m.incStatistic(ctx, userID, "statistic.losses")
}

func (m *MongoUserStorage) incStatistic(ctx context.Context, userID string, field string) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	collection := m.adapter.Database.Collection("users")
	_, err = collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$inc": bson.M{field: 1},
			"$set": bson.M{"updated_at": time.Now()},
		})
	return err
}
