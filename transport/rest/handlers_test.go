package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

type mockResultService struct {
	mock.Mock
}

func (that *mockResultService) SubmitResult(ctx context.Context, playerX, playerO, winner string) (*entity.Result, error) {
	args := that.Called(ctx, playerX, playerO, winner)
	result, _ := args.Get(0).(*entity.Result)
	return result, args.Error(1)
}

func (that *mockResultService) ListRecentResults(ctx context.Context) ([]*entity.Result, error) {
	args := that.Called(ctx)
	results, _ := args.Get(0).([]*entity.Result)
	return results, args.Error(1)
}

func (that *mockResultService) Ready(ctx context.Context) error {
	args := that.Called(ctx)
	return args.Error(0)
}

func newTestRouter(svc *mockResultService, origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, origins, NewResultHandler(logger, svc))
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestResultHandler_SubmitResult(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		// Given: a service that stores the result
		svc := &mockResultService{}
		router := newTestRouter(svc)

		stored := entity.NewResult("Alice", "Bob", "Bob", time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC))
		svc.On("SubmitResult", mock.Anything, "Alice", "Bob", "Bob").Return(stored, nil).Once()

		// When: a result is posted
		rec := serve(router, http.MethodPost, "/api/results", `{"playerX":"Alice","playerO":"Bob","winner":"Bob"}`)

		// Then: the stored record is echoed back
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp SubmitResultResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Result saved successfully", resp.Message)
		require.NotNil(t, resp.Result)
		assert.Equal(t, stored.ID, resp.Result.ID)
		assert.Equal(t, "Bob", resp.Result.Winner)
		assert.True(t, stored.Date.Equal(resp.Result.Date))
		svc.AssertExpectations(t)
	})

	t.Run("Missing fields are passed through empty", func(t *testing.T) {
		// Given: a service that accepts anything
		svc := &mockResultService{}
		router := newTestRouter(svc)

		svc.On("SubmitResult", mock.Anything, "", "", entity.DrawWinner).
			Return(entity.NewResult("", "", entity.DrawWinner, time.Now()), nil).
			Once()

		// When: only the winner is posted
		rec := serve(router, http.MethodPost, "/api/results", `{"winner":"Draw"}`)

		// Then: the result is still created
		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Storage failure", func(t *testing.T) {
		// Given: a service whose store is down
		svc := &mockResultService{}
		router := newTestRouter(svc)

		svc.On("SubmitResult", mock.Anything, "Alice", "Bob", "Draw").
			Return(nil, fmt.Errorf("could not save result: %w", apperror.ErrStorageUnavailable)).
			Once()

		// When: a result is posted
		rec := serve(router, http.MethodPost, "/api/results", `{"playerX":"Alice","playerO":"Bob","winner":"Draw"}`)

		// Then: a generic error is returned
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to save result"}`, rec.Body.String())
	})

	t.Run("Malformed body", func(t *testing.T) {
		// Given: a service that must not be called
		svc := &mockResultService{}
		router := newTestRouter(svc)

		// When: the body is not JSON
		rec := serve(router, http.MethodPost, "/api/results", `{"playerX":`)

		// Then: the request is rejected
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
		svc.AssertNotCalled(t, "SubmitResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestResultHandler_ListRecentResults(t *testing.T) {
	t.Run("Newest first", func(t *testing.T) {
		// Given: ten stored results
		svc := &mockResultService{}
		router := newTestRouter(svc)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		stored := make([]*entity.Result, 0, 10)
		for i := 10; i > 0; i-- {
			stored = append(stored, entity.NewResult("A", "B", "A", start.Add(time.Duration(i)*time.Minute)))
		}
		svc.On("ListRecentResults", mock.Anything).Return(stored, nil).Once()

		// When: the list is requested
		rec := serve(router, http.MethodGet, "/api/results", "")

		// Then: the results come back in order
		require.Equal(t, http.StatusOK, rec.Code)

		var results []*entity.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 10)
		assert.Equal(t, stored[0].ID, results[0].ID)
		assert.Equal(t, stored[9].ID, results[9].ID)
	})

	t.Run("Empty store is an empty array", func(t *testing.T) {
		// Given: nothing stored
		svc := &mockResultService{}
		router := newTestRouter(svc)

		svc.On("ListRecentResults", mock.Anything).Return(nil, nil).Once()

		// When: the list is requested
		rec := serve(router, http.MethodGet, "/api/results", "")

		// Then: an empty JSON array is returned
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Storage failure", func(t *testing.T) {
		// Given: a failing store
		svc := &mockResultService{}
		router := newTestRouter(svc)

		svc.On("ListRecentResults", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		// When: the list is requested
		rec := serve(router, http.MethodGet, "/api/results", "")

		// Then: a generic error is returned
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch results"}`, rec.Body.String())
	})
}

func TestResultHandler_Probes(t *testing.T) {
	t.Run("Liveness", func(t *testing.T) {
		router := newTestRouter(&mockResultService{})

		rec := serve(router, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Ready", func(t *testing.T) {
		svc := &mockResultService{}
		router := newTestRouter(svc)
		svc.On("Ready", mock.Anything).Return(nil).Once()

		rec := serve(router, http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Degraded", func(t *testing.T) {
		// Given: a service without a store
		svc := &mockResultService{}
		router := newTestRouter(svc)
		svc.On("Ready", mock.Anything).Return(apperror.ErrStorageUnavailable).Once()

		// When: readiness is probed
		rec := serve(router, http.MethodGet, "/readyz", "")

		// Then: the service reports itself degraded
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	})
}

func TestRouter_Ping(t *testing.T) {
	router := newTestRouter(&mockResultService{})

	rec := serve(router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	t.Run("Any origin", func(t *testing.T) {
		svc := &mockResultService{}
		router := newTestRouter(svc)
		svc.On("ListRecentResults", mock.Anything).Return([]*entity.Result{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/results", nil)
		req.Header.Set("Origin", "http://game.local")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight", func(t *testing.T) {
		router := newTestRouter(&mockResultService{})

		req := httptest.NewRequest(http.MethodOptions, "/api/results", nil)
		req.Header.Set("Origin", "http://game.local")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("Listed origin only", func(t *testing.T) {
		svc := &mockResultService{}
		router := newTestRouter(svc, "http://game.local")
		svc.On("ListRecentResults", mock.Anything).Return([]*entity.Result{}, nil).Twice()

		allowed := httptest.NewRequest(http.MethodGet, "/api/results", nil)
		allowed.Header.Set("Origin", "http://game.local")
		allowedRec := httptest.NewRecorder()
		router.ServeHTTP(allowedRec, allowed)

		other := httptest.NewRequest(http.MethodGet, "/api/results", nil)
		other.Header.Set("Origin", "http://evil.local")
		otherRec := httptest.NewRecorder()
		router.ServeHTTP(otherRec, other)

		assert.Equal(t, "http://game.local", allowedRec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, otherRec.Header().Get("Access-Control-Allow-Origin"))
	})
}
