package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"gobaduk/internal/domain/user"
	errs "gobaduk/internal/errors"
	"gobaduk/internal/random"
)

type UserStorage interface {
	CheckExists(ctx context.Context, username string) bool
	GetUser(ctx context.Context, username string) (user.User, bool)
	GetUserByID(ctx context.Context, id string) (user.User, bool)
	CreateUser(ctx context.Context, newUser user.User) (string, error)
	AddWin(ctx context.Context, userID string) error
	AddLose(ctx context.Context, userID string) error
}

type SessionStorage interface {
	GetUserIdBySession(ctx context.Context, sessionID string) (userID string, ok bool)
	StoreSession(ctx context.Context, sessionID string, userID string)
	DeleteSession(ctx context.Context, sessionID string) (ok bool)
}

type AuthUsecaseHandler struct {
	userStorage    UserStorage
	sessionStorage SessionStorage
}

func NewAuthUsecaseHandler(u UserStorage, s SessionStorage) *AuthUsecaseHandler {
	return &AuthUsecaseHandler{
		userStorage:    u,
		sessionStorage: s,
	}
}

func (a *AuthUsecaseHandler) RegisterUser(ctx context.Context, username, email, password string) (sessionID string, err error) {
	if a.userStorage.CheckExists(ctx, username) {
		return "", errs.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	userID, err := a.userStorage.CreateUser(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", err
	}

	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(ctx, sessionID, userID)
	return sessionID, nil
}

func (a *AuthUsecaseHandler) LoginUser(ctx context.Context, username, password string) (sessionID string, err error) {
	userFromDb, exists := a.userStorage.GetUser(ctx, username)
	if !exists {
		return "", errs.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(userFromDb.PasswordHash), []byte(password)) != nil {
		return "", errs.ErrWrongPassword
	}

	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(ctx, sessionID, userFromDb.ID)
	return sessionID, nil
}

// LogoutUser returns nil or ErrSessionNotFound.
func (a *AuthUsecaseHandler) LogoutUser(ctx context.Context, sessionID string) error {
	if _, ok := a.sessionStorage.GetUserIdBySession(ctx, sessionID); !ok {
		return errs.ErrSessionNotFound
	}
	if !a.sessionStorage.DeleteSession(ctx, sessionID) {
		return errs.ErrSessionNotFound
	}
	return nil
}

func (a *AuthUsecaseHandler) GetUserIdFromSession(ctx context.Context, sessionID string) (string, error) {
	userID, ok := a.sessionStorage.GetUserIdBySession(ctx, sessionID)
	if !ok {
		return "", errs.ErrSessionNotFound
	}
	return userID, nil
}

func (a *AuthUsecaseHandler) GetUserByUserId(ctx context.Context, userID string) (user.User, error) {
	found, ok := a.userStorage.GetUserByID(ctx, userID)
	if !ok {
		return user.User{}, errs.ErrUserNotFound
	}
	return found, nil
}

func (a *AuthUsecaseHandler) AddWin(ctx context.Context, userID string) error {
	return a.userStorage.AddWin(ctx, userID)
}

func (a *AuthUsecaseHandler) AddLose(ctx context.Context, userID string) error {
	return a.userStorage.AddLose(ctx, userID)
}
