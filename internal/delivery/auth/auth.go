package auth

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	errs "gobaduk/internal/errors"
	"gobaduk/internal/httpresponse"
	authUC "gobaduk/internal/usecase/auth"
	"gobaduk/internal/utils"
)

type AuthHandler struct {
	usecaseHandler *authUC.AuthUsecaseHandler
	log            *zap.SugaredLogger
	sessionTTL     time.Duration
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserFindRequest struct {
	UserID string `json:"user_id"`
}

func NewAuthHandler(usecase *authUC.AuthUsecaseHandler, log *zap.SugaredLogger, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		usecaseHandler: usecase,
		log:            log,
		sessionTTL:     sessionTTL,
	}
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerData RegisterRequest
	if err := utils.DecodeJSONRequest(r, &registerData); err != nil {
		a.log.Error("Register: malformed JSON: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	sessionID, err := a.usecaseHandler.RegisterUser(r.Context(), registerData.Username, registerData.Email, registerData.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUserExists) {
			a.log.Errorf("Register: user already exists: %s", registerData.Username)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: err.Error()})
			return
		}
		a.log.Error("Register: internal error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginData LoginRequest
	if err := utils.DecodeJSONRequest(r, &loginData); err != nil {
		a.log.Error("Login: malformed JSON: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	sessionID, err := a.usecaseHandler.LoginUser(r.Context(), loginData.Username, loginData.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserNotFound), errors.Is(err, errs.ErrWrongPassword):
			a.log.Errorf("Login: rejected for user %s: %v", loginData.Username, err)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		default:
			a.log.Error("Login: internal error: ", err)
			httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
				httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		}
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("sessionID")
	if err != nil {
		a.log.Warn("Logout: no sessionID cookie")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: http.ErrNoCookie.Error()})
		return
	}

	if err := a.usecaseHandler.LogoutUser(r.Context(), sessionCookie.Value); err != nil {
		a.log.Errorf("Logout: failed for sessionID=%s: %v", sessionCookie.Value, err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

// GetUserID resolves the session cookie to a user id. On failure it writes
// the error response itself and returns "".
func (a *AuthHandler) GetUserID(w http.ResponseWriter, r *http.Request) string {
	sessionCookie, err := r.Cookie("sessionID")
	if err != nil {
		a.log.Warn("GetUserID: no sessionID cookie")
		httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
			httpresponse.ErrorResponse{ErrorDescription: "sessionID cookie is missing"})
		return ""
	}

	userID, err := a.usecaseHandler.GetUserIdFromSession(r.Context(), sessionCookie.Value)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			a.log.Warn("GetUserID: session not found or expired")
			httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
				httpresponse.ErrorResponse{ErrorDescription: "session not found or expired"})
			return ""
		}
		a.log.Error("GetUserID: internal error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return ""
	}

	return userID
}

func (a *AuthHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	if userID := a.GetUserID(w, r); userID == "" {
		return
	}

	var req UserFindRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		a.log.Error("GetUserByID: JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	found, err := a.usecaseHandler.GetUserByUserId(r.Context(), req.UserID)
	if err != nil {
		a.log.Errorf("GetUserByID: error retrieving user %s: %v", req.UserID, err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, found)
}

func (a *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sessionID",
		Value:    sessionID,
		Expires:  time.Now().Add(a.sessionTTL),
		Secure:   true,
		HttpOnly: true,
	})
}
