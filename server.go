package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mmdatafocus/partner_backend/analysis"
	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/models"
	"github.com/mmdatafocus/partner_backend/reports"
	"github.com/mmdatafocus/partner_backend/utils"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination: handle SIGTERM for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until DB/Redis are ready, app endpoints
	// return 503.
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(config.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on store readiness. The cache is optional by
		// design: a missing Redis connection degrades to store-only reads.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	analyzer := analysis.NewAnalyzerFromEnv()
	registerRoutes(r, analyzer)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithField("module", "server").Panic(err.Error())
		}
	}()

	// Connect dependencies after the listener is up.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(); err != nil {
		config.LogError(context.Background(), logger, "server", "main", "migrate", nil, err)
	}

	<-sigCtx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.LogError(context.Background(), logger, "server", "main", "shutdown", nil, err)
	}
}

func registerRoutes(r *gin.Engine, analyzer *analysis.Analyzer) {
	r.GET("/health", func(c *gin.Context) {
		status := models.HealthCheck(c.Request.Context())
		code := http.StatusOK
		if !status.Database {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	r.POST("/partners", handleCreatePartner)
	r.PUT("/partners/:id", handleUpdatePartner)
	r.GET("/partners/:inn", handleGetPartner)
	r.GET("/search", handleSearch)
	r.GET("/stats", handleStats)
	r.POST("/partners/:inn/analyze", handleAnalyze(analyzer))
	r.POST("/partners/:inn/report", handleGenerateReport(analyzer))
	r.POST("/reports/:uuid/download", handleDownload)
}

// actorFromRequest reads the acting user's identity the chat front end
// forwards with each call.
func actorFromRequest(c *gin.Context) models.UserInfo {
	id, _ := strconv.ParseInt(c.GetHeader("X-Actor-Id"), 10, 64)
	return models.UserInfo{
		Id:        id,
		Username:  c.GetHeader("X-Actor-Username"),
		FirstName: c.GetHeader("X-Actor-First-Name"),
		LastName:  c.GetHeader("X-Actor-Last-Name"),
	}
}

// bindingErrorBody maps struct-tag violations to a field:tag response;
// anything else (malformed JSON, bad enum value) reports as-is.
func bindingErrorBody(err error) gin.H {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return gin.H{"errors": utils.ProcessValidationErrors(err)}
	}
	return gin.H{"error": err.Error()}
}

func handleCreatePartner(c *gin.Context) {
	var input models.NewPartner
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	partner, err := models.CreatePartner(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, partner)
}

func handleUpdatePartner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input models.NewPartner
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	partner, err := models.UpdatePartner(c.Request.Context(), id, &input)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, partner)
}

func handleGetPartner(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	inn := c.Param("inn")
	actor := actorFromRequest(c)

	if !utils.ValidateINN(inn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inn"})
		return
	}

	profile, err := models.GetPartnerProfile(ctx, inn)
	if err != nil {
		models.LogInteraction(ctx, actor, models.ActionData{
			ActionType:     models.ActionSearchByInn,
			PartnerInn:     inn,
			ResponseTimeMs: time.Since(start).Milliseconds(),
			Success:        false,
			ErrorMessage:   "Partner not found",
		})
		c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
		return
	}

	models.LogInteraction(ctx, actor, models.ActionData{
		ActionType:     models.ActionSearchByInn,
		PartnerInn:     inn,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Success:        true,
	})
	c.JSON(http.StatusOK, profile)
}

func handleSearch(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results := models.SearchPartners(ctx, query, limit)

	models.LogInteraction(ctx, actorFromRequest(c), models.ActionData{
		ActionType:     models.ActionSearch,
		SearchQuery:    query,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Success:        true,
	})
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func handleStats(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats := models.GetPartnerStatistics(ctx, days)

	models.LogInteraction(ctx, actorFromRequest(c), models.ActionData{
		ActionType:     models.ActionStats,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Success:        true,
	})
	c.JSON(http.StatusOK, stats)
}

func handleAnalyze(analyzer *analysis.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		inn := c.Param("inn")
		actor := actorFromRequest(c)

		if !utils.ValidateINN(inn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inn"})
			return
		}

		profile, err := models.GetPartnerProfile(ctx, inn)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
			return
		}

		result := analyzer.AnalyzePartner(ctx, profile)
		summary := analyzer.GenerateSummary(ctx, profile, result)

		models.LogInteraction(ctx, actor, models.ActionData{
			ActionType:     models.ActionAiAnalysis,
			PartnerInn:     inn,
			ResponseTimeMs: time.Since(start).Milliseconds(),
			Success:        result.Success,
			ErrorMessage:   result.Error,
		})
		c.JSON(http.StatusOK, gin.H{"result": result, "summary": summary})
	}
}

func handleGenerateReport(analyzer *analysis.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		inn := c.Param("inn")
		actor := actorFromRequest(c)

		if !utils.ValidateINN(inn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inn"})
			return
		}

		profile, err := models.GetPartnerProfile(ctx, inn)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
			return
		}

		// The analysis may fail; its deterministic fallback still renders.
		result := analyzer.AnalyzePartner(ctx, profile)

		artifact, err := reports.GeneratePartnerReport(profile, result, reports.DocumentsDir())
		if err != nil {
			config.LogError(ctx, config.GetLogger(), "server", "handleGenerateReport", inn, nil, err)
			models.LogInteraction(ctx, actor, models.ActionData{
				ActionType:     models.ActionGenerateReport,
				PartnerInn:     inn,
				ResponseTimeMs: time.Since(start).Milliseconds(),
				Success:        false,
				ErrorMessage:   err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
			return
		}

		reportUuid := models.SaveGeneratedReport(ctx, &models.NewGeneratedReport{
			PartnerInn:       inn,
			TelegramUserId:   actor.Id,
			ReportType:       artifact.ReportType,
			ReportPath:       artifact.Filepath,
			FileSizeBytes:    artifact.FileSizeBytes,
			AiAnalysis:       result.RawResponse,
			GenerationTimeMs: artifact.GenerationTimeMs,
		})

		models.LogInteraction(ctx, actor, models.ActionData{
			ActionType:     models.ActionGenerateReport,
			PartnerInn:     inn,
			ResponseTimeMs: time.Since(start).Milliseconds(),
			Success:        true,
		})
		c.JSON(http.StatusOK, gin.H{
			"report_uuid": reportUuid,
			"artifact":    artifact,
			"analysis":    result,
		})
	}
}

func handleDownload(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	reportUuid := c.Param("uuid")
	actor := actorFromRequest(c)

	report, err := models.GetGeneratedReport(ctx, reportUuid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	models.IncrementReportDownload(ctx, reportUuid)

	models.LogInteraction(ctx, actor, models.ActionData{
		ActionType:     models.ActionDownloadReport,
		PartnerInn:     report.PartnerInn,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Success:        true,
	})
	c.JSON(http.StatusOK, gin.H{
		"report_uuid": report.ReportUuid,
		"report_path": report.ReportPath,
		"file_size":   report.FileSizeBytes,
	})
}
