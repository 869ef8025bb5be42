package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"farmcare/arbiter"
	"farmcare/database"
	"farmcare/detection"
	"farmcare/image"
	"farmcare/localization"
	"farmcare/middleware"
	"farmcare/models"
	"farmcare/vocab"
)

const (
	APIPrefix   = "/api/v1"
	scansPrefix = APIPrefix + "/disease-scans"

	// ImageField is the multipart field holding the upload.
	ImageField = "image"

	DefaultMaxUploadBytes = 10 << 20
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Detector runs the detection pipeline. It never fails.
type Detector interface {
	Detect(ctx context.Context, req detection.Request) detection.Outcome
}

// ScanStore reads stored scans.
type ScanStore interface {
	ListScans(ctx context.Context, userID string, limit int) ([]models.Scan, error)
	GetScanImage(ctx context.Context, id, userID string) ([]byte, string, error)
	DeleteScan(ctx context.Context, id, userID string) error
	DiseaseStats(ctx context.Context, userID string) ([]models.ClassCount, error)
	ScanSummary(ctx context.Context, userID string, since time.Time) (models.ScanSummary, error)
}

// Handlers serves the disease detection API.
type Handlers struct {
	detector       Detector
	scans          ScanStore
	thresholds     arbiter.Thresholds
	maxUploadBytes int64
}

// NewHandlers creates new HTTP handlers. scans may be nil, in which case
// the history endpoints answer 503.
func NewHandlers(detector Detector, scans ScanStore, thresholds arbiter.Thresholds, maxUploadBytes int64) *Handlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handlers{
		detector:       detector,
		scans:          scans,
		thresholds:     thresholds,
		maxUploadBytes: maxUploadBytes,
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "farmcare-disease-detection",
	})
}

// DetectDisease runs an upload through the pipeline and answers with the
// compatibility payload. Error-shaped reports are returned with 502.
func (h *Handlers) DetectDisease(c *gin.Context) {
	lang := middleware.GetLanguage(c)
	up, ok := h.readUpload(c, lang)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	out := h.detector.Detect(c.Request.Context(), detection.Request{
		Image:     up.data,
		Filename:  up.filename,
		MimeType:  up.mimeType,
		Language:  lang,
		UserID:    userID,
		Threshold: h.thresholds.Report,
		// Only signed-in callers get a history to store into.
		Save: userID != "",
	})

	status := http.StatusOK
	if out.Status == models.StatusFailed {
		status = http.StatusBadGateway
	}
	c.JSON(status, newDetectionPayload(out, lang.Code()))
}

// CreateScan runs an upload through the pipeline with the scan threshold
// and answers with the stored scan.
func (h *Handlers) CreateScan(c *gin.Context) {
	lang := middleware.GetLanguage(c)
	up, ok := h.readUpload(c, lang)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	out := h.detector.Detect(c.Request.Context(), detection.Request{
		Image:     up.data,
		Filename:  up.filename,
		MimeType:  up.mimeType,
		Language:  lang,
		UserID:    userID,
		Threshold: h.thresholds.Scan,
		// Only signed-in callers get a history to store into.
		Save: userID != "",
	})

	scan := newScanPayload(scanFromOutcome(out, up.filename, lang.Code()), out.Report)
	if out.Status == models.StatusFailed {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": out.Report.Message,
			"scan":  scan,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": localization.Message("Disease scan completed successfully", lang),
		"scan":    scan,
	})
}

// ListScans returns the caller's most recent scans, translated to the
// request language.
func (h *Handlers) ListScans(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	lang := middleware.GetLanguage(c)

	limit := database.MaxListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message("Bad request", lang)})
			return
		}
		limit = n
	}

	scans, err := h.scans.ListScans(c.Request.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		log.Errorf("Failed to list scans: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": localization.Message("Internal server error", lang)})
		return
	}

	out := make([]ScanPayload, 0, len(scans))
	for _, s := range scans {
		out = append(out, newScanPayload(s, localization.Translate(s.Report, lang)))
	}
	c.JSON(http.StatusOK, gin.H{
		"scans": out,
		"total": len(out),
	})
}

// GetScanImage streams the stored upload of one of the caller's scans.
func (h *Handlers) GetScanImage(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	lang := middleware.GetLanguage(c)

	data, mimeType, err := h.scans.GetScanImage(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": localization.Message("Scan not found", lang)})
		return
	}
	if err != nil {
		log.Errorf("Failed to get scan image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": localization.Message("Internal server error", lang)})
		return
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, mimeType, data)
}

// DeleteScan removes one of the caller's scans.
func (h *Handlers) DeleteScan(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	lang := middleware.GetLanguage(c)
	id := c.Param("id")

	err := h.scans.DeleteScan(c.Request.Context(), id, middleware.GetUserID(c))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": localization.Message("Scan not found", lang)})
		return
	}
	if err != nil {
		log.Errorf("Failed to delete scan %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": localization.Message("Internal server error", lang)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": localization.Message("Scan deleted successfully", lang),
		"id":      id,
	})
}

// GetStats counts the caller's completed scans per class, along with the
// totals of all stored scans. Today starts at UTC midnight.
func (h *Handlers) GetStats(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	lang := middleware.GetLanguage(c)
	userID := middleware.GetUserID(c)

	stats, err := h.scans.DiseaseStats(c.Request.Context(), userID)
	if err != nil {
		log.Errorf("Failed to get disease stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": localization.Message("Internal server error", lang)})
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	sum, err := h.scans.ScanSummary(c.Request.Context(), userID, today)
	if err != nil {
		log.Errorf("Failed to get scan summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": localization.Message("Internal server error", lang)})
		return
	}
	total := 0
	for _, s := range stats {
		total += s.Count
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":               stats,
		"total":               total,
		"totalScans":          sum.TotalScans,
		"todayScans":          sum.TodayScans,
		"highConfidenceScans": sum.HighConfidenceScans,
		"accuracyRate":        sum.AccuracyRate(),
	})
}

// GetClasses publishes the closed vocabulary.
func (h *Handlers) GetClasses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"classes": vocab.Classes,
		"unknown": vocab.Unknown,
		"count":   len(vocab.Classes),
	})
}

// GetDiseaseInfo returns the reference entry for a class. Loose spellings
// such as "apple scab" are matched against the vocabulary.
func (h *Handlers) GetDiseaseInfo(c *gin.Context) {
	lang := middleware.GetLanguage(c)
	info, ok := vocab.Lookup(vocab.Coerce(c.Param("name")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": localization.Message("Disease not found", lang)})
		return
	}
	info.PlantType = localization.PlantName(info.PlantType, lang)
	info.Symptoms = localization.Texts(info.Symptoms, lang)
	info.Treatment = localization.Texts(info.Treatment, lang)
	info.Prevention = localization.Texts(info.Prevention, lang)
	c.JSON(http.StatusOK, info)
}

func (h *Handlers) requireStore(c *gin.Context) bool {
	if h.scans != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scan history is not available"})
	return false
}

type upload struct {
	data     []byte
	filename string
	mimeType string
}

// readUpload validates the multipart image and reads it into memory. It
// writes the error response itself and reports false on failure.
func (h *Handlers) readUpload(c *gin.Context, lang localization.Language) (upload, bool) {
	fh, err := c.FormFile(ImageField)
	if err != nil || fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message("No image provided", lang)})
		return upload{}, false
	}

	if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message(
			"File type not allowed. Only image files (jpg, jpeg, png, gif) are permitted.", lang)})
		return upload{}, false
	}

	tooLarge := fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxUploadBytes>>20)
	if fh.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message(tooLarge, lang)})
		return upload{}, false
	}

	f, err := fh.Open()
	if err != nil {
		log.Errorf("Failed to open upload %s: %v", fh.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message("Invalid image format", lang)})
		return upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		log.Errorf("Failed to read upload %s: %v", fh.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message("Invalid image format", lang)})
		return upload{}, false
	}
	if int64(len(data)) > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message(tooLarge, lang)})
		return upload{}, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": localization.Message("No image provided", lang)})
		return upload{}, false
	}

	return upload{
		data:     data,
		filename: filepath.Base(fh.Filename),
		mimeType: image.DetectMimeType(data),
	}, true
}
