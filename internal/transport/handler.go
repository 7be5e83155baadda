package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"go-dental-analyzer/internal/config"
	apperrors "go-dental-analyzer/internal/errors"
	"go-dental-analyzer/internal/logger"
	"go-dental-analyzer/internal/service"
	"go-dental-analyzer/pkg/models"
)

// NewHandler wires the HTTP surface around the analysis service.
func NewHandler(svc service.DentalAnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/analyze", analyze(svc, cfg))
		v1.POST("/assess", assess(svc, cfg))
		v1.POST("/analyze/batch", analyzeBatch(svc, cfg))
		v1.GET("/history/:userID", history(svc, cfg))
	}

	return r
}

func analyze(svc service.DentalAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			respondAppError(c, apperrors.NewInvalidImage(err))
			return
		}

		logger.WithFields(logrus.Fields{
			"url":         req.URL,
			"user_id":     req.UserID,
			"personalize": req.Personalize,
			"ip":          c.ClientIP(),
		}).Info("Processing analysis request")

		resp, err := svc.Analyze(ctx, req)
		if err != nil {
			respondAppError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url":                  req.URL,
			"processing_time_ms":   time.Since(start).Milliseconds(),
			"conditions":           resp.Conditions,
			"overall_health_score": resp.OverallHealthScore,
		}).Info("Analysis completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func assess(svc service.DentalAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AssessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAppError(c, apperrors.NewInvalidImage(err))
			return
		}

		resp, err := svc.AssessRealtime(ctx, req)
		if err != nil {
			respondAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func analyzeBatch(svc service.DentalAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchAnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAppError(c, apperrors.NewInsufficientData("batch requires at least one URL"))
			return
		}

		logger.WithFields(logrus.Fields{
			"count":   len(req.URLs),
			"user_id": req.UserID,
			"ip":      c.ClientIP(),
		}).Info("Processing batch analysis request")

		results, err := svc.AnalyzeBatch(ctx, req)
		if err != nil {
			respondAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func history(svc service.DentalAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		responses, err := svc.History(ctx, c.Param("userID"))
		if err != nil {
			respondAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"analyses": responses})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// respondAppError maps any error onto the stable wire error contract.
func respondAppError(c *gin.Context, err error) {
	appErr := apperrors.Normalize(err)
	code := appErr.StatusCode
	if errors.Is(err, context.DeadlineExceeded) {
		code = http.StatusGatewayTimeout
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"error_kind":  appErr.Kind,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		ErrorKind:          string(appErr.Kind),
		Message:            apperrors.UserMessage(appErr.Kind),
		RecoverySuggestion: apperrors.RecoverySuggestion(appErr.Kind),
		Issues:             appErr.Issues,
	})
}
