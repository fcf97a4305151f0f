// internal/cli/watch.go
package scamlens

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/upload"
	"github.com/spf13/cobra"
)

// watchSettle is how long a file must stay quiet before it is analyzed, so
// half-written screenshots are not picked up.
var watchSettle = 750 * time.Millisecond

// watchCmd turns a directory into a drop zone.
var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Analyze screenshots as they are dropped into a directory",
	Long: `Watch a directory and analyze every image file created or rewritten in it.
Analyses run one at a time in arrival order. Press Ctrl+C to stop watching.

Examples:
  scamlens watch ~/Screenshots
  scamlens watch --jsonMode ./inbox`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		watcher, err := createDirWatcher(args[0])
		if err != nil {
			return err
		}
		defer cleanupWatcher(watcher)

		svc := newService(cfg)
		defer svc.Close()

		out, progress := cmd.OutOrStdout(), cmd.ErrOrStderr()
		format := console.FormatFor(cfg)
		if format == console.FormatText {
			progress = out
		}
		writeWatchBanner(progress, args[0])

		return runWatchLoop(cmd.Context(), watcher, func(ctx context.Context, path string) {
			report, err := analyzeFile(ctx, progress, cfg, svc, analyzeOptions{}, path)
			if err != nil {
				log.Printf("watch: %s: %v", path, err)
			}
			if werr := console.WriteReport(out, format, report); werr != nil {
				log.Printf("watch: write report: %v", werr)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// createDirWatcher creates a watcher on dir, which must be an existing directory.
func createDirWatcher(dir string) (*fsnotify.Watcher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("empty directory path")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Clean(dir)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}
	return watcher, nil
}

// cleanupWatcher closes watcher, logging any failure.
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil {
		log.Printf("watch: failed to close watcher: %v", err)
	}
}

// isScreenshotEvent reports whether event should trigger an analysis.
func isScreenshotEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasPrefix(upload.DeclaredMediaType(base, nil), "image/")
}

// settleTimer waits out a burst of events on one path.
type settleTimer struct {
	path  string
	timer *time.Timer
}

// debouncer holds one settle timer per path. A timer that fires sends itself
// on ready; only the newest timer of a path counts as settled.
type debouncer struct {
	ctx     context.Context
	delay   time.Duration
	ready   chan *settleTimer
	pending map[string]*settleTimer
}

func newDebouncer(ctx context.Context, delay time.Duration) *debouncer {
	return &debouncer{
		ctx:     ctx,
		delay:   delay,
		ready:   make(chan *settleTimer),
		pending: make(map[string]*settleTimer),
	}
}

// touch restarts the settle delay for path.
func (d *debouncer) touch(path string) {
	if s, ok := d.pending[path]; ok && s.timer.Stop() {
		s.timer.Reset(d.delay)
		return
	}
	// A fired timer may still be waiting to send; replacing it makes that
	// send stale.
	s := &settleTimer{path: path}
	s.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.ready <- s:
		case <-d.ctx.Done():
		}
	})
	d.pending[path] = s
}

// settled reports whether s is the live timer for its path and forgets it.
func (d *debouncer) settled(s *settleTimer) bool {
	if d.pending[s.path] != s {
		return false
	}
	delete(d.pending, s.path)
	return true
}

func (d *debouncer) stop() {
	for _, s := range d.pending {
		s.timer.Stop()
	}
}

// runWatchLoop feeds settled screenshot paths to handle, one at a time,
// until ctx is cancelled or the watcher closes.
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, handle func(context.Context, string)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range jobs {
			if ctx.Err() != nil {
				return
			}
			handle(ctx, path)
		}
	}()

	settle := newDebouncer(ctx, watchSettle)
	defer func() {
		cancel()
		settle.stop()
		close(jobs)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case s := <-settle.ready:
			if !settle.settled(s) {
				continue
			}
			select {
			case jobs <- s.path:
			default:
				log.Printf("watch: queue full, skipping %s", s.path)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isScreenshotEvent(event) {
				continue
			}
			settle.touch(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}

func writeWatchBanner(w io.Writer, dir string) {
	fmt.Fprintf(w, "Watching %s for screenshots. Press Ctrl+C to stop...\n", dir)
}
