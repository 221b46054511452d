package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trendscope/analyzer/internal/analysis"
	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/domain"
	"github.com/trendscope/analyzer/internal/logger"
)

// AnalysisService runs analysis requests and rule reloads.
type AnalysisService interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Response, error)
	ReloadRules(ctx context.Context) error
}

// RuleStore is the rule persistence surface the handlers need.
type RuleStore interface {
	Create(ctx context.Context, rule *domain.ScoringRule) error
	GetByID(ctx context.Context, id int) (*domain.ScoringRule, error)
	List(ctx context.Context, tier domain.KeywordTier, enabled *bool) ([]*domain.ScoringRule, error)
	Update(ctx context.Context, rule *domain.ScoringRule) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// RunStore is the run-history surface the handlers need.
type RunStore interface {
	GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
	Stats(ctx context.Context) (*database.UsageStats, error)
}

// Handler handles HTTP requests for the analyzer API.
type Handler struct {
	service AnalysisService
	rules   RuleStore
	runs    RunStore
	// readiness probes, nil entries are skipped
	dbPing    func() error
	redisPing func() error

	version string
	logger  logger.Logger
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Service   AnalysisService
	Rules     RuleStore
	Runs      RunStore
	DBPing    func() error
	RedisPing func() error
	Version   string
	Logger    logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(opts HandlerOptions) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		service:   opts.Service,
		rules:     opts.Rules,
		runs:      opts.Runs,
		dbPing:    opts.DBPing,
		redisPing: opts.RedisPing,
		version:   opts.Version,
		logger:    log,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode != "" && req.Mode != domain.ModeGeneral && req.Mode != domain.ModeAd && req.Mode != domain.ModeProduct {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one of: general, ad, product"})
		return
	}

	resp, err := h.service.Analyze(c.Request.Context(), analysis.Request{
		Search:     req.Search,
		Category:   req.Category,
		Mode:       req.Mode,
		Hashtag:    req.Hashtag,
		MinViews:   req.MinViews,
		MinLikes:   req.MinLikes,
		WindowDays: req.WindowDays,
		Limit:      req.Limit,
		SkipCache:  req.SkipCache,
	})
	if err != nil {
		h.logger.Error("analysis failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed, try again later"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/analyze/runs/:run_id.
func (h *Handler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.runs.GetByID(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		h.logger.Error("get run failed", logger.String("run_id", runID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRuns handles GET /api/v1/analyze/runs.
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list runs failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, RunsListResponse{Runs: runs, Total: len(runs)})
}

// ListRules handles GET /api/v1/rules.
func (h *Handler) ListRules(c *gin.Context) {
	var enabled *bool
	if raw := c.Query("enabled"); raw != "" {
		v := raw == "true"
		enabled = &v
	}

	rules, err := h.rules.List(c.Request.Context(), domain.KeywordTier(c.Query("tier")), enabled)
	if err != nil {
		h.logger.Error("list rules failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rules"})
		return
	}

	resp := RulesListResponse{Rules: make([]RuleResponse, 0, len(rules)), Total: len(rules)}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, toRuleResponse(rule))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRule handles POST /api/v1/rules. The running classifier reloads
// immediately so the next analysis uses the new rule.
func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule := &domain.ScoringRule{
		RuleName: req.Name,
		Tier:     domain.KeywordTier(req.Tier),
		Keywords: req.Keywords,
		Weight:   req.Weight,
		Enabled:  req.Enabled,
	}
	if err := h.rules.Create(c.Request.Context(), rule); err != nil {
		h.logger.Error("create rule failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rule"})
		return
	}

	h.reloadRules(c)
	c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// UpdateRule handles PUT /api/v1/rules/:id.
func (h *Handler) UpdateRule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.rules.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		h.logger.Error("get rule failed", logger.Int("id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rule"})
		return
	}

	applyRuleUpdate(rule, &req)
	if err := h.rules.Update(c.Request.Context(), rule); err != nil {
		h.logger.Error("update rule failed", logger.Int("id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rule"})
		return
	}

	h.reloadRules(c)
	c.JSON(http.StatusOK, toRuleResponse(rule))
}

// DeleteRule handles DELETE /api/v1/rules/:id.
func (h *Handler) DeleteRule(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.rules.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
			return
		}
		h.logger.Error("delete rule failed", logger.Int("id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rule"})
		return
	}

	h.reloadRules(c)
	c.Status(http.StatusNoContent)
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.runs.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("stats failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate stats"})
		return
	}

	ruleCount, err := h.rules.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("rule count failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate stats"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Usage: stats, RulesTotal: ruleCount})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "analyzer",
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. Ready means the dependencies answer.
func (h *Handler) ReadyCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.dbPing != nil {
		if err := h.dbPing(); err != nil {
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.redisPing != nil {
		if err := h.redisPing(); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": ready, "checks": checks})
}

// reloadRules pushes the stored rules into the running classifier. Reload
// failure is reported in logs only: the stored rule change already
// succeeded and applies on next restart regardless.
func (h *Handler) reloadRules(c *gin.Context) {
	if h.service == nil {
		return
	}
	if err := h.service.ReloadRules(c.Request.Context()); err != nil {
		h.logger.Error("rule hot reload failed", logger.Error(err))
	}
}
