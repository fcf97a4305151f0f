package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwiater/scamlens/internal/store"
)

type featureWeight struct {
	Word       string  `json:"word"`
	Importance float64 `json:"importance"`
}

type feedbackBody struct {
	FeedbackType          string    `json:"feedback_type" binding:"required,oneof=correct incorrect"`
	CorrectClassification string    `json:"correct_classification"`
	Comments              string    `json:"comments"`
	Timestamp             time.Time `json:"timestamp"`
}

type reportBody struct {
	ScamType    string    `json:"scam_type" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)

	header, err := c.FormFile("screenshot")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.renderError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.maxBytes))
		case errors.Is(err, http.ErrMissingFile):
			s.renderError(c, http.StatusBadRequest, errors.New("screenshot file is required"))
		default:
			s.renderError(c, http.StatusBadRequest, err)
		}
		return
	}

	src, err := header.Open()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	declared := header.Header.Get("Content-Type")
	sniffed := mimetype.Detect(data).String()
	if !isImage(declared) && !isImage(sniffed) {
		s.renderError(c, http.StatusBadRequest, errors.New("screenshot must be an image"))
		return
	}

	textWeight, err := parseWeight(c.PostForm("text_weight"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("text_weight: %w", err))
		return
	}
	cnnWeight, err := parseWeight(c.PostForm("cnn_weight"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("cnn_weight: %w", err))
		return
	}

	name := filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "screenshot"
	}
	stored := filepath.Join(s.uploadDir, fmt.Sprintf("%d_%s", s.now().UnixNano(), name))
	if err := os.WriteFile(stored, data, 0o644); err != nil {
		s.renderError(c, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
		return
	}

	confidence := s.verdict.Confidence
	if confidence <= 0 {
		confidence = defaultConfidence
	}
	isScam := s.verdict.Scam()

	row := &store.Upload{
		Filename:   name,
		StoredPath: stored,
		MediaType:  sniffed,
		SizeBytes:  int64(len(data)),
		TextModel:  c.PostForm("text_model"),
		CNNModel:   c.PostForm("cnn_model"),
		TextWeight: textWeight,
		CNNWeight:  cnnWeight,
		IsScam:     isScam,
		Confidence: confidence,
	}
	if err := s.db.SaveUpload(row); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"file":        name,
		"bytes":       len(data),
		"text_model":  row.TextModel,
		"cnn_model":   row.CNNModel,
		"text_weight": textWeight,
		"cnn_weight":  cnnWeight,
	}).Info("screenshot received")

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"is_scam":            isScam,
		"confidence":         confidence,
		"text_confidence":    orDefault(s.verdict.TextConfidence, confidence),
		"image_confidence":   orDefault(s.verdict.ImageConfidence, confidence),
		"feature_importance": sortedFeatures(s.verdict.FeatureImportance),
		"extracted_text":     s.verdict.ExtractedText,
	})
}

func (s *Server) handleFeedback(c *gin.Context) {
	var body feedbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	correction := strings.TrimSpace(body.CorrectClassification)
	if body.FeedbackType == "incorrect" && correction == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("correct_classification is required for incorrect feedback"))
		return
	}
	entry := &store.FeedbackEntry{
		FeedbackType:          body.FeedbackType,
		CorrectClassification: correction,
		Comments:              strings.TrimSpace(body.Comments),
		SubmittedAt:           s.timestamp(body.Timestamp),
	}
	if err := s.db.SaveFeedback(entry); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	logrus.WithFields(logrus.Fields{"type": entry.FeedbackType, "correction": correction}).Info("feedback received")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleReport(c *gin.Context) {
	var body reportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	report := &store.ScamReport{
		ScamType:    strings.TrimSpace(body.ScamType),
		Description: strings.TrimSpace(body.Description),
		SubmittedAt: s.timestamp(body.Timestamp),
	}
	if report.ScamType == "" || report.Description == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("scam_type and description are required"))
		return
	}
	if err := s.db.SaveReport(report); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	logrus.WithField("scam_type", report.ScamType).Info("scam report received")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t.UTC()
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

// parseWeight reads a decimal in [0,1]. An empty value means 0.5.
func parseWeight(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("must be within [0,1], got %v", v)
	}
	return v, nil
}

func orDefault(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

// sortedFeatures orders the configured features by importance, highest first.
func sortedFeatures(m map[string]float64) []featureWeight {
	out := make([]featureWeight, 0, len(m))
	for word, importance := range m {
		out = append(out, featureWeight{Word: word, Importance: importance})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance == out[j].Importance {
			return out[i].Word < out[j].Word
		}
		return out[i].Importance > out[j].Importance
	})
	return out
}
