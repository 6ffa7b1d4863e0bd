package handlers

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/spotalert/internal/billing"
	"github.com/example/spotalert/internal/facematch"
	"github.com/example/spotalert/internal/repository"
	"github.com/example/spotalert/internal/usecase"
)

// MaxUploadSize caps multipart image uploads.
const MaxUploadSize = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Coordinator is the ingestion surface the handlers depend on.
type Coordinator interface {
	Handle(ctx context.Context, in usecase.HandleInput) (*usecase.HandleResult, error)
	GetAlert(ctx context.Context, alertID string) (*repository.AlertRecord, error)
	GetUsageSummary(ctx context.Context, recipient string) (*usecase.UsageSummary, error)
	ResetUsage(ctx context.Context) error
	ExportUsage(ctx context.Context) ([]repository.UsageEntry, error)
}

// RegisterRoutes wires the HTTP handlers to the Gin router. The admin
// middleware guards the ledger maintenance endpoints.
func RegisterRoutes(router *gin.Engine, uc Coordinator, adminAuth gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.POST("/trigger-alert", func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if file.Size > MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported image type"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
			return
		}
		if len(data) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image is empty"})
			return
		}

		result, err := uc.Handle(c.Request.Context(), usecase.HandleInput{
			ImageBytes:     data,
			Filename:       file.Filename,
			ContentType:    contentType,
			Plan:           c.PostForm("plan"),
			RecipientEmail: c.PostForm("email"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}

		faces := result.Matches
		if faces == nil {
			faces = []facematch.Match{}
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"alert_id": result.AlertID,
			"faces":    faces,
			"key":      result.ImageKey,
		})
	})

	router.GET("/alerts/:id", func(c *gin.Context) {
		alertID := c.Param("id")
		record, err := uc.GetAlert(c.Request.Context(), alertID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"alert_id":       record.AlertID,
			"classification": record.Classification,
			"key":            record.ImageKey,
			"created_at":     record.CreatedAt,
		})
	})

	router.GET("/usage-summary", func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		summary, err := uc.GetUsageSummary(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	router.POST("/usage-reset", adminAuth, func(c *gin.Context) {
		if err := uc.ResetUsage(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/usage-export", adminAuth, func(c *gin.Context) {
		entries, err := uc.ExportUsage(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="usage.csv"`)
		c.Status(http.StatusOK)

		w := csv.NewWriter(c.Writer)
		_ = w.Write([]string{"id", "recipient", "plan", "channel", "cost", "timestamp"})
		for _, e := range entries {
			_ = w.Write([]string{
				strconv.FormatUint(uint64(e.ID), 10),
				e.Recipient,
				e.Plan,
				e.Channel,
				billing.Amount(e.Cost).String(),
				e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		w.Flush()
	})
}
