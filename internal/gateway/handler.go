package gateway

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codelens-ai/codelens/internal/metrics"
	"github.com/codelens-ai/codelens/internal/review"
)

const apiVersion = "1.0.0"

// genericErrorMessage replaces internal diagnostic detail in production.
const genericErrorMessage = "An error occurred while generating the review"

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	reviewService *review.Service
	metrics       *metrics.ReviewMetrics
	production    bool
	startedAt     time.Time
}

// NewHandler creates a new gateway handler
func NewHandler(reviewService *review.Service, reviewMetrics *metrics.ReviewMetrics, production bool) *Handler {
	return &Handler{
		reviewService: reviewService,
		metrics:       reviewMetrics,
		production:    production,
		startedAt:     time.Now(),
	}
}

// ReviewResponse represents a successful review response
type ReviewResponse struct {
	Review       string `json:"review"`
	Success      bool   `json:"success"`
	Timestamp    string `json:"timestamp"`
	ResponseTime string `json:"responseTime"`
	CodeLength   int    `json:"codeLength"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// StatusResponse represents the AI service status
type StatusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	HasAPIKey bool   `json:"hasApiKey"`
	Timestamp string `json:"timestamp"`
}

// GetReview godoc
// @Summary Generate a code review
// @Description Submit a code snippet and receive an AI-generated review
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ai/get-review [post]
func (h *Handler) GetReview(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		// MaxBytesReader trips here when the framework-level cap is exceeded.
		h.writeError(c, &review.ClassifiedError{
			Kind:       review.KindInvalidInput,
			HTTPStatus: http.StatusRequestEntityTooLarge,
			Message:    "Request body too large",
		})
		return
	}

	req, rejection := review.ParseRequest(body)
	if rejection != nil {
		h.writeError(c, rejection)
		return
	}

	log.Printf("Generating review for code (%d characters)...", len(req.Code))
	h.metrics.RecordReviewRequested(c.Request.Context(), len(req.Code))

	result, err := h.reviewService.Generate(c.Request.Context(), req)
	if err != nil {
		classified := review.Classify(err)
		log.Printf(`{"level":"error","message":"Failed to generate review","kind":"%s","error":"%v"}`, classified.Kind, err)
		h.metrics.RecordReviewFailed(c.Request.Context(), string(classified.Kind), time.Since(start))
		h.writeError(c, classified)
		return
	}

	responseTime := time.Since(start)
	log.Printf("Review generated successfully in %dms", responseTime.Milliseconds())
	h.metrics.RecordReviewCompleted(c.Request.Context(), result.ReviewText == "", responseTime)

	c.JSON(http.StatusOK, ReviewResponse{
		Review:       result.ReviewText,
		Success:      true,
		Timestamp:    result.GeneratedAt.Format(time.RFC3339),
		ResponseTime: fmt.Sprintf("%dms", responseTime.Milliseconds()),
		CodeLength:   result.InputLength,
	})
}

// GetStatus godoc
// @Summary AI service status
// @Description Report whether a provider credential is configured, without calling the provider
// @Tags ai
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /ai/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	hasKey := h.reviewService.HasCredential()

	status := "ready"
	message := "AI service is ready to process requests"
	if !hasKey {
		status = "not configured"
		message = "GOOGLE_GEMINI_KEY is not set in environment variables"
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:    status,
		Message:   message,
		HasAPIKey: hasKey,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Health godoc
// @Summary Liveness probe
// @Tags monitoring
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root godoc
// @Summary Informational banner
// @Tags monitoring
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "AI Code Reviewer API",
		"version":   apiVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound handles unmatched routes
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:     "Not Found",
		Message:   fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError shapes a classified error into the error response body. In
// production, internal detail for server-side failures is replaced with a
// generic message; the classified status is preserved either way.
func (h *Handler) writeError(c *gin.Context, classified *review.ClassifiedError) {
	message := classified.Message
	if h.production && classified.HTTPStatus >= http.StatusInternalServerError {
		message = genericErrorMessage
	}

	c.JSON(classified.HTTPStatus, ErrorResponse{
		Error:     classified.Kind.Label(),
		Message:   message,
		Success:   false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
