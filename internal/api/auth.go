package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gufronnakaaw/jujurly-backend/internal/database"
	"golang.org/x/crypto/bcrypt"
)

var defaultJwtExpiration = time.Hour

const (
	userIdClaim   = "id"
	fullnameClaim = "fullname"
	expClaim      = "exp"
)

type contextKey string

const userIdKey contextKey = "user-id"

func WithUserId(ctx context.Context, userId int) context.Context {
	return context.WithValue(ctx, userIdKey, userId)
}

func UserId(ctx context.Context) (int, bool) {
	userId, ok := ctx.Value(userIdKey).(int)

	return userId, ok
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string `json:"token"`
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}

func (s *App) createSessionToken(userId int, fullname string, exp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIdClaim:   userId,
		fullnameClaim: fullname,
		expClaim:      time.Now().Add(exp).Unix(),
	})

	return token.SignedString(s.signingKey)
}

func (s *App) extractUserIdFromToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	userId, ok := claims[userIdClaim].(float64)
	if !ok {
		return 0, errors.New("invalid user id claim")
	}

	return int(userId), nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return token, ok && token != ""
}

func (s *App) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	var fields []FieldError
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields = append(fields, FieldError{Field: "email", Message: "a valid email is required"})
	}
	if req.Fullname == "" {
		fields = append(fields, FieldError{Field: "fullname", Message: "fullname is required"})
	}
	if req.Password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		s.writeError(w, NewValidationError(fields))
		return
	}

	_, err := s.db.GetUserByEmail(req.Email)
	if err == nil {
		s.writeError(w, NewBadRequestError("Email already exists"))
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	pwdHash, err := hashPassword(req.Password)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	newUser, err := s.db.CreateUser(database.CreateUserParams{
		Email:        req.Email,
		Fullname:     req.Fullname,
		PasswordHash: pwdHash,
	})
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	token, err := s.createSessionToken(newUser.Id, newUser.Fullname, defaultJwtExpiration)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusCreated, SessionResponse{Token: token})
}

func (s *App) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, NewBadRequestError("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		s.writeError(w, NewBadRequestError("email and password are required"))
		return
	}

	// a missing account and a bad password produce the same response
	dbUser, err := s.db.GetUserByEmail(req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, NewBadRequestError("Email or password wrong"))
		return
	}
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	if !verifyPassword(dbUser.PasswordHash, req.Password) {
		s.writeError(w, NewBadRequestError("Email or password wrong"))
		return
	}

	token, err := s.createSessionToken(dbUser.Id, dbUser.Fullname, defaultJwtExpiration)
	if err != nil {
		s.writeError(w, NewInternalServerError(err))
		return
	}

	s.writeData(w, http.StatusOK, SessionResponse{Token: token})
}
