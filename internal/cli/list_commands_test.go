package scamlens

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCollectCommandData(t *testing.T) {
	root := &cobra.Command{Use: "root", Short: "root cmd"}
	child := &cobra.Command{Use: "child", Short: "child cmd"}
	hidden := &cobra.Command{Use: "secret", Hidden: true}
	child.AddCommand(&cobra.Command{Use: "leaf", Short: "leaf cmd"})
	root.AddCommand(child, hidden)

	data := collectCommandData(root, "", "")
	if len(data) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(data), data)
	}
	if data[2].path != "    root child leaf" || data[2].description != "leaf cmd" {
		t.Fatalf("unexpected leaf entry %+v", data[2])
	}
}

func TestRunListCommandsListsTree(t *testing.T) {
	var out bytes.Buffer
	runListCommands(&out, rootCmd)
	text := out.String()
	for _, want := range []string{"scamlens analyze", "scamlens watch", "scamlens serve", "scamlens show config", "scamlens show stats", "scamlens show uploads"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Contains(text, "completion") {
		t.Errorf("completion commands should be hidden:\n%s", text)
	}
}
