package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

const readinessTimeout = 3 * time.Second

type ResultHandler interface {
	SubmitResult(ctx *gin.Context)
	ListRecentResults(ctx *gin.Context)
	Liveness(ctx *gin.Context)
	Readiness(ctx *gin.Context)
}

type resultService interface {
	SubmitResult(ctx context.Context, playerX, playerO, winner string) (*entity.Result, error)
	ListRecentResults(ctx context.Context) ([]*entity.Result, error)
	Ready(ctx context.Context) error
}

type SubmitResultRequest struct {
	PlayerX string `json:"playerX"`
	PlayerO string `json:"playerO"`
	Winner  string `json:"winner"`
}

type SubmitResultResponse struct {
	Message string         `json:"message"`
	Result  *entity.Result `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type resultHandler struct {
	logger  *slog.Logger
	results resultService
}

func NewResultHandler(logger *slog.Logger, results resultService) ResultHandler {
	return &resultHandler{
		logger:  logger.With("component", "results"),
		results: results,
	}
}

func (that *resultHandler) SubmitResult(ctx *gin.Context) {
	log := that.logger.With("method", "SubmitResult")

	var req SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn("failed to decode request", "error", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := that.results.SubmitResult(ctx.Request.Context(), req.PlayerX, req.PlayerO, req.Winner)
	if err != nil {
		that.logStorageError(log, "failed to save result", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save result"})
		return
	}

	log.Info("result saved", "id", result.ID, "winner", result.Winner)

	ctx.JSON(http.StatusCreated, SubmitResultResponse{
		Message: "Result saved successfully",
		Result:  result,
	})
}

func (that *resultHandler) ListRecentResults(ctx *gin.Context) {
	log := that.logger.With("method", "ListRecentResults")

	results, err := that.results.ListRecentResults(ctx.Request.Context())
	if err != nil {
		that.logStorageError(log, "failed to fetch results", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch results"})
		return
	}

	if results == nil {
		results = []*entity.Result{}
	}

	ctx.JSON(http.StatusOK, results)
}

func (that *resultHandler) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness - 503 while the service runs without a reachable store.
func (that *resultHandler) Readiness(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), readinessTimeout)
	defer cancel()

	if err := that.results.Ready(reqCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}

func (that *resultHandler) logStorageError(log *slog.Logger, msg string, err error) {
	if errors.Is(err, apperror.ErrStorageUnavailable) {
		log.Error(msg+": no result store is configured, check DATABASE_URL", "error", err)
		return
	}
	log.Error(msg, "error", err)
}
