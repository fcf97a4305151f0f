// Package server is a local stand-in for the screenshot scam-detection
// service. It accepts the same three endpoints as the real backend, stores
// what it receives and answers every analysis with a configured verdict.
// It does not classify anything.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/store"
)

const defaultConfidence = 92.5

// Server wires HTTP handlers with persistence.
type Server struct {
	db             *store.Database
	uploadDir      string
	maxBytes       int64
	allowedOrigins []string
	verdict        appconfig.CannedVerdict
	now            func() time.Time
}

// New constructs the stub server. The upload folder is created if missing.
func New(cfg appconfig.Server, db *store.Database) (*Server, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	uploadDir := cfg.UploadPath()
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload folder: %w", err)
	}
	return &Server{
		db:             db,
		uploadDir:      uploadDir,
		maxBytes:       cfg.MaxUploadBytes(),
		allowedOrigins: cfg.AllowedOrigins,
		verdict:        cfg.Verdict,
		now:            time.Now,
	}, nil
}

// Router builds the gin engine serving the detection endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.handleHealth)
	r.GET("/stats", s.handleStats)
	r.POST("/analyze", s.handleAnalyze)
	r.POST("/feedback", s.handleFeedback)
	r.POST("/report", s.handleReport)
	return r
}

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Microsecond).String(),
		}).Info("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	counts, err := s.db.Counts()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	byType, err := s.db.ReportsByType()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "counts": counts, "reports_by_type": byType})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// Run serves cfg until ctx is cancelled.
func Run(ctx context.Context, cfg appconfig.Server) error {
	db, err := store.Open(cfg.DatabasePath(), true)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := New(cfg, db)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	logrus.WithFields(logrus.Fields{
		"addr":    cfg.ListenAddr(),
		"uploads": srv.uploadDir,
		"db":      cfg.DatabasePath(),
	}).Info("starting scamlens stub server")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logrus.Info("shutting down stub server")
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}
