package api

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gufronnakaaw/jujurly-backend/internal/database"
	"github.com/gufronnakaaw/jujurly-backend/internal/stats"
	"github.com/stretchr/testify/assert"
)

func Test_errorHandler(t *testing.T) {
	mockRepo := &database.MockJujurlyRepository{}
	app := newTestApp(t, mockRepo, &stats.MockStatsUpdater{})

	handler := app.errorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code, "expected status code to be 500")
	assert.Equal(t, "close", rr.Header().Get("Connection"), "expected connection header to be close")

	success, fieldErrs := decodeEnvelope(t, rr, nil)
	assert.False(t, success, "expected success to be false")
	assert.NotEmpty(t, fieldErrs, "expected errors to be present")
}

func Test_authMiddleware(t *testing.T) {
	mockRepo := &database.MockJujurlyRepository{}
	app := newTestApp(t, mockRepo, &stats.MockStatsUpdater{})

	validToken, err := app.createSessionToken(7, "Test User", defaultJwtExpiration)
	assert.NoError(t, err, "expected token creation to succeed")

	tcases := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserId int
	}{
		{
			name:           "passes a valid bearer token through",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUserId: 7,
		},
		{
			name:           "fails with no authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "fails with a non-bearer header",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "fails with an invalid token",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUserId int
			handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
				gotUserId, _ = UserId(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "expected status code to match")

			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, tc.expectedUserId, gotUserId, "expected user id from token to land in context")
				assert.NotEmpty(t, rr.Header().Get("Cache-Control"), "expected cache-control header to be set")
			}
		})
	}
}

func Test_apiTokenMiddleware(t *testing.T) {
	tcases := []struct {
		name           string
		token          string
		mockToken      database.Token
		mockErr        error
		mockCalled     bool
		expectedStatus int
	}{
		{
			name:  "passes a valid token through",
			token: "validtoken",
			mockToken: database.Token{
				Value:   "validtoken",
				Expired: time.Now().Add(time.Hour).UnixMilli(),
			},
			mockCalled:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "fails with no token header",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "fails with an unknown token",
			token:          "unknowntoken",
			mockErr:        sql.ErrNoRows,
			mockCalled:     true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "fails with an expired token",
			token: "expiredtoken",
			mockToken: database.Token{
				Value:   "expiredtoken",
				Expired: time.Now().Add(-time.Hour).UnixMilli(),
			},
			mockCalled:     true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "fails with db error",
			token:          "validtoken",
			mockErr:        errors.New("db error"),
			mockCalled:     true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockJujurlyRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.mockCalled {
				mockRepo.On("GetToken", tc.token).Return(tc.mockToken, tc.mockErr).Once()
			}

			app := newTestApp(t, mockRepo, &stats.MockStatsUpdater{})

			handler := app.apiTokenMiddleware(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
			if tc.token != "" {
				req.Header.Set("api_token", tc.token)
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "expected status code to match")
		})
	}
}
