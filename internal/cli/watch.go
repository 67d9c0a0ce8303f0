package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/avelis/clinscribe/internal/report"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	watchDoctor      string
	watchFormat      string
	watchOutputDir   string
	watchConcurrency int
	watchSettle      time.Duration
)

// audioExts lists the file extensions the watcher picks up.
var audioExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".aac":  true,
	".webm": true,
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and process new session recordings",
	Long: `Watch a directory for new audio files and run each one through the
session pipeline. The patient name is taken from the file name (without
extension) and the session date from the file's modification day.

Example:
  clinscribe watch ./recordings --doctor "Dr. Ma" --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDoctor, "doctor", "", "treating doctor's name for all sessions")
	watchCmd.Flags().StringVar(&watchFormat, "format", "pdf", "report format: pdf or docx")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", ".", "directory for rendered reports")
	watchCmd.Flags().IntVar(&watchConcurrency, "concurrency", 2, "max sessions processed in parallel")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 2*time.Second, "wait after last write before processing a file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	if err := os.MkdirAll(watchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	orch, renderer, err := newOrchestrator(watchFormat)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("watching for recordings", "dir", dir, "concurrency", watchConcurrency)

	ctx := cmd.Context()
	sem := make(chan struct{}, watchConcurrency)
	var wg sync.WaitGroup

	settle := newSettler(watchSettle, func(path string) {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			processRecording(orch, renderer, path)
		}()
	})

	// Outstanding settle timers must not fire against a store the
	// PostRun hook is about to close.
	drain := func() {
		settle.stop()
		wg.Wait()
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				drain()
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !audioExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			settle.schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				drain()
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// settler debounces per-path events: a burst of writes to one file fires
// the callback once, after the file has been quiet for the settle delay.
type settler struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*time.Timer
	stopped bool
	fire    func(path string)
}

func newSettler(delay time.Duration, fire func(path string)) *settler {
	return &settler{
		delay:   delay,
		pending: map[string]*time.Timer{},
		fire:    fire,
	}
}

// schedule arms (or re-arms) the settle timer for path.
func (s *settler) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.pending[path]; ok {
		t.Reset(s.delay)
		return
	}
	s.pending[path] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.pending, path)
		s.mu.Unlock()

		s.fire(path)
	})
}

// stop cancels all pending timers; timers that already fired see the
// stopped flag and return without calling fire.
func (s *settler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for path, t := range s.pending {
		t.Stop()
		delete(s.pending, path)
	}
}

func processRecording(orch *pipeline.Orchestrator, renderer report.Renderer, path string) {
	patient := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	date := time.Now().Format("2006-01-02")
	if info, err := os.Stat(path); err == nil {
		date = info.ModTime().Format("2006-01-02")
	}

	logger.Info("processing recording", "file", path, "patient", patient)

	res, err := orch.Process(context.Background(), pipeline.Request{
		Doctor:    watchDoctor,
		Patient:   patient,
		Date:      date,
		AudioPath: path,
	})
	if err != nil {
		logger.Error("recording failed", "file", path, "error", err)
		return
	}
	if res.RenderErr != nil {
		logger.Error("report failed, session stored", "id", res.Record.ID, "error", res.RenderErr)
		return
	}

	out := filepath.Join(watchOutputDir, fmt.Sprintf("session_%d.%s", res.Record.ID, renderer.Ext()))
	if err := os.WriteFile(out, res.Report, 0o644); err != nil {
		logger.Error("write report failed", "id", res.Record.ID, "error", err)
		return
	}
	logger.Info("session complete", "id", res.Record.ID, "report", out)
}
