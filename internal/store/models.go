package store

import "time"

// Upload records one screenshot received by /analyze.
type Upload struct {
	ID         uint   `gorm:"primaryKey"`
	Filename   string `gorm:"size:255;index"`
	StoredPath string `gorm:"size:1024"`
	MediaType  string `gorm:"size:128"`
	SizeBytes  int64
	TextModel  string `gorm:"size:64"`
	CNNModel   string `gorm:"size:64"`
	TextWeight float64
	CNNWeight  float64
	IsScam     bool `gorm:"index"`
	Confidence float64
	CreatedAt  time.Time
}

// FeedbackEntry records one /feedback submission.
type FeedbackEntry struct {
	ID                    uint   `gorm:"primaryKey"`
	FeedbackType          string `gorm:"size:16;index"`
	CorrectClassification string `gorm:"size:32"`
	Comments              string `gorm:"type:text"`
	SubmittedAt           time.Time
	CreatedAt             time.Time
}

// ScamReport records one /report submission.
type ScamReport struct {
	ID          uint   `gorm:"primaryKey"`
	ScamType    string `gorm:"size:64;index"`
	Description string `gorm:"type:text"`
	SubmittedAt time.Time
	CreatedAt   time.Time
}

// Counts summarizes the stored rows.
type Counts struct {
	Uploads  int64 `json:"uploads"`
	Feedback int64 `json:"feedback"`
	Reports  int64 `json:"reports"`
}
