package scamlens

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/store"
)

func seedUploads(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scamlens.db")
	db, err := store.Open(path, true)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	for _, name := range []string{"first.png", "second.png"} {
		u := &store.Upload{Filename: name, SizeBytes: 2048, TextModel: "distilbert", CNNModel: "resnet50", TextWeight: 0.5, CNNWeight: 0.5, IsScam: true, Confidence: 92.5}
		if err := db.SaveUpload(u); err != nil {
			t.Fatalf("save upload: %v", err)
		}
	}
	return path
}

func TestRunShowUploadsText(t *testing.T) {
	var out bytes.Buffer
	if err := runShowUploads(&out, console.FormatText, seedUploads(t), 10); err != nil {
		t.Fatalf("runShowUploads: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], "second.png") || !strings.Contains(lines[0], "scam 92.5%") {
		t.Fatalf("expected newest upload first, got %q", lines[0])
	}
}

func TestRunShowUploadsJSONLimit(t *testing.T) {
	var out bytes.Buffer
	if err := runShowUploads(&out, console.FormatJSON, seedUploads(t), 1); err != nil {
		t.Fatalf("runShowUploads: %v", err)
	}
	var uploads []store.Upload
	if err := json.Unmarshal(out.Bytes(), &uploads); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(uploads) != 1 || uploads[0].Filename != "second.png" {
		t.Fatalf("unexpected uploads %+v", uploads)
	}
}

func TestRunShowUploadsMissingDatabase(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "none.db")
	if err := runShowUploads(&out, console.FormatText, path, 5); err != nil {
		t.Fatalf("runShowUploads: %v", err)
	}
	if !strings.Contains(out.String(), "No uploads recorded yet") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
