// Package store persists what the stub detection server receives.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path, creating
// its parent directory when needed.
func Open(path string, silent bool) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Upload{}, &FeedbackEntry{}, &ScamReport{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveUpload creates an upload row.
func (d *Database) SaveUpload(u *Upload) error {
	if u == nil {
		return errors.New("upload is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(u).Error
}

// SaveFeedback creates a feedback row.
func (d *Database) SaveFeedback(f *FeedbackEntry) error {
	if f == nil {
		return errors.New("feedback is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(f).Error
}

// SaveReport creates a scam report row.
func (d *Database) SaveReport(r *ScamReport) error {
	if r == nil {
		return errors.New("report is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(r).Error
}

// RecentUploads returns the newest uploads first.
func (d *Database) RecentUploads(limit int) ([]Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Upload
	err := d.gorm.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// ReportsByType counts reports per scam type.
func (d *Database) ReportsByType() (map[string]int64, error) {
	var rows []struct {
		ScamType string
		Total    int64
	}
	err := d.gorm.Model(&ScamReport{}).
		Select("scam_type, COUNT(*) AS total").
		Group("scam_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.ScamType] = r.Total
	}
	return out, nil
}

// Counts returns the number of stored rows per table.
func (d *Database) Counts() (Counts, error) {
	var c Counts
	if err := d.gorm.Model(&Upload{}).Count(&c.Uploads).Error; err != nil {
		return Counts{}, err
	}
	if err := d.gorm.Model(&FeedbackEntry{}).Count(&c.Feedback).Error; err != nil {
		return Counts{}, err
	}
	if err := d.gorm.Model(&ScamReport{}).Count(&c.Reports).Error; err != nil {
		return Counts{}, err
	}
	return c, nil
}
