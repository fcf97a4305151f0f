package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"), true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndCount(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"a.png", "b.png"} {
		if err := db.SaveUpload(&Upload{Filename: name, SizeBytes: 10, TextModel: "distilbert", CNNModel: "resnet50", TextWeight: 0.5, CNNWeight: 0.5}); err != nil {
			t.Fatalf("SaveUpload: %v", err)
		}
	}
	if err := db.SaveFeedback(&FeedbackEntry{FeedbackType: "incorrect", CorrectClassification: "legitimate", SubmittedAt: time.Now()}); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	for _, typ := range []string{"phishing", "phishing", "romance"} {
		if err := db.SaveReport(&ScamReport{ScamType: typ, Description: "x", SubmittedAt: time.Now()}); err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	counts, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts != (Counts{Uploads: 2, Feedback: 1, Reports: 3}) {
		t.Fatalf("counts = %+v", counts)
	}

	recent, err := db.RecentUploads(1)
	if err != nil {
		t.Fatalf("RecentUploads: %v", err)
	}
	if len(recent) != 1 || recent[0].Filename != "b.png" {
		t.Fatalf("recent = %+v", recent)
	}

	byType, err := db.ReportsByType()
	if err != nil {
		t.Fatalf("ReportsByType: %v", err)
	}
	if byType["phishing"] != 2 || byType["romance"] != 1 {
		t.Fatalf("byType = %v", byType)
	}
}

func TestSaveNil(t *testing.T) {
	db := openTestDB(t)
	if db.SaveUpload(nil) == nil || db.SaveFeedback(nil) == nil || db.SaveReport(nil) == nil {
		t.Fatal("expected errors for nil rows")
	}
}

func TestCloseNil(t *testing.T) {
	var db *Database
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
