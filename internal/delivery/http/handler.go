package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ruokahinta/backend/internal/domain"
	"github.com/ruokahinta/backend/internal/usecase"
)

const (
	defaultMaxIngredients = 50
	defaultRequestTimeout = 30 * time.Second

	serviceName    = "ruokahinta-backend"
	serviceVersion = "1.0.0"
)

// IngredientResolver resolves recipe line items against the catalog
type IngredientResolver interface {
	ResolveIngredients(ctx context.Context, requests []domain.IngredientRequest) []domain.MatchResult
}

// RecipeObserver receives recipe size observations
type RecipeObserver interface {
	ObserveRecipe(ingredients int)
}

// HandlerConfig holds limits for HTTP handlers
type HandlerConfig struct {
	MaxIngredients int
	RequestTimeout time.Duration
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver       IngredientResolver
	observer       RecipeObserver
	maxIngredients int
	requestTimeout time.Duration
	logger         *zap.Logger
}

// ResolveRequest is the body of POST /api/v1/ingredients/resolve
type ResolveRequest struct {
	Ingredients []domain.IngredientRequest `json:"ingredients"`
}

// ResolveResponse is the response of POST /api/v1/ingredients/resolve
type ResolveResponse struct {
	Results []domain.MatchResultView `json:"results"`
}

// RecipeCostRequest is the body of POST /api/v1/recipes/cost
type RecipeCostRequest struct {
	Servings    int                        `json:"servings"`
	Ingredients []domain.IngredientRequest `json:"ingredients"`
}

// RecipeCostResponse is the response of POST /api/v1/recipes/cost
type RecipeCostResponse struct {
	Results []domain.MatchResultView `json:"results"`
	Summary domain.RecipeCostSummary `json:"summary"`
}

// NewHandler creates a new HTTP handler. observer and logger may be nil.
func NewHandler(resolver IngredientResolver, observer RecipeObserver, config HandlerConfig, logger *zap.Logger) *Handler {
	if config.MaxIngredients <= 0 {
		config.MaxIngredients = defaultMaxIngredients
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		resolver:       resolver,
		observer:       observer,
		maxIngredients: config.MaxIngredients,
		requestTimeout: config.RequestTimeout,
		logger:         logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ResolveIngredients handles single-pass ingredient matching requests
func (h *Handler) ResolveIngredients(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	if err := h.checkIngredients(req.Ingredients); err != nil {
		h.badRequest(c, err)
		return
	}

	results := h.resolve(c, req.Ingredients)

	c.JSON(http.StatusOK, ResolveResponse{Results: views(results)})
}

// RecipeCost resolves every ingredient and returns the recipe cost summary
func (h *Handler) RecipeCost(c *gin.Context) {
	var req RecipeCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	if req.Servings < 0 {
		h.badRequest(c, fmt.Errorf("%w: servings must not be negative", domain.ErrInvalidRequest))
		return
	}
	if err := h.checkIngredients(req.Ingredients); err != nil {
		h.badRequest(c, err)
		return
	}

	results := h.resolve(c, req.Ingredients)
	summary := usecase.Summarize(results, req.Servings)

	h.logger.Info("recipe priced",
		zap.Int("ingredients", summary.TotalIngredients),
		zap.Int("matched", summary.MatchedCount),
		zap.Float64("total_cost", summary.TotalCost),
		zap.Bool("complete", summary.Complete),
	)

	c.JSON(http.StatusOK, RecipeCostResponse{
		Results: views(results),
		Summary: summary,
	})
}

func (h *Handler) resolve(c *gin.Context, ingredients []domain.IngredientRequest) []domain.MatchResult {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	if h.observer != nil {
		h.observer.ObserveRecipe(len(ingredients))
	}
	return h.resolver.ResolveIngredients(ctx, ingredients)
}

func (h *Handler) checkIngredients(ingredients []domain.IngredientRequest) error {
	if len(ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", domain.ErrInvalidRequest)
	}
	if len(ingredients) > h.maxIngredients {
		return fmt.Errorf("%w: too many ingredients (%d > %d)", domain.ErrInvalidRequest, len(ingredients), h.maxIngredients)
	}
	return nil
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("rejected request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func views(results []domain.MatchResult) []domain.MatchResultView {
	out := make([]domain.MatchResultView, 0, len(results))
	for _, r := range results {
		out = append(out, r.View())
	}
	return out
}
