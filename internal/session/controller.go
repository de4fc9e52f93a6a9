// Package session drives the font-loading state machine: parse subtitles,
// load or rebuild the font index, register every referenced face with the
// OS, and unregister on retry or exit. A single worker goroutine executes
// the machine while the UI polls Snapshot and flips the control flags.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"subfont/internal/arena"
	"subfont/internal/index"
	"subfont/internal/logging"
	"subfont/internal/platform"
)

// DefaultMaxSubtitleSize caps how large a subtitle file may be before it is
// skipped outright.
const DefaultMaxSubtitleSize = 64 * 1024 * 1024

// WorkerExitTimeout bounds how long the UI waits for the worker after
// asking it to stop.
const WorkerExitTimeout = 15 * time.Second

// Options configures a session.
type Options struct {
	// Paths are the subtitle files or directories supplied by the user.
	Paths []string
	// CachePath is where the font index cache lives.
	CachePath string
	// FontDir is the directory scanned for fonts.
	FontDir string
	// Recursive controls whether the font scan descends into
	// subdirectories.
	Recursive bool
	// ChdirToExecutable moves the process to the executable's directory
	// after the parse phase so relative font lookups anchor there.
	ChdirToExecutable bool
	// MaxSubtitleSize overrides DefaultMaxSubtitleSize when positive.
	MaxSubtitleSize int64

	Registrar platform.Registrar
	Logger    *logging.Logger
}

// Controller owns the subtitle face set and the font index and runs the
// state machine over them.
type Controller struct {
	opts Options

	subFonts *arena.Arena
	fontSet  *index.Index

	// Files successfully registered, in registration order. Consumed by
	// the unregister pass so removals exactly balance additions.
	registered []string

	state     atomic.Int32
	loaded    atomic.Uint32
	failed    atomic.Uint32
	unmatched atomic.Uint32
	numFiles  atomic.Int32
	numFaces  atomic.Int32

	cancelled atomic.Bool
	reqExit   atomic.Bool

	done chan struct{}
}

// New creates a controller ready to Start.
func New(opts Options) *Controller {
	if opts.CachePath == "" {
		opts.CachePath = "fc-subs.db"
	}
	if opts.FontDir == "" {
		opts.FontDir = "."
	}
	if opts.MaxSubtitleSize <= 0 {
		opts.MaxSubtitleSize = DefaultMaxSubtitleSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetLogger()
	}
	c := &Controller{
		opts:     opts,
		subFonts: arena.New(),
	}
	c.state.Store(int32(StateParseSubtitles))
	return c
}

// Snapshot returns the UI view of the session.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:     State(c.state.Load()),
		Loaded:    c.loaded.Load(),
		Failed:    c.failed.Load(),
		Unmatched: c.unmatched.Load(),
		NumFiles:  int(c.numFiles.Load()),
		NumFaces:  int(c.numFaces.Load()),
	}
}

// Cancel asks the worker to abort at its next check.
func (c *Controller) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether the session was cancelled.
func (c *Controller) Cancelled() bool {
	return c.cancelled.Load()
}

// Retry rewinds a Done session: the next worker pass unregisters
// everything and rescans. Call Start afterwards.
func (c *Controller) Retry() {
	c.state.Store(int32(StateUnregister))
}

// RequestExit rewinds a Done session for teardown: the next worker pass
// unregisters everything and stops. Call Start afterwards.
func (c *Controller) RequestExit() {
	c.reqExit.Store(true)
	c.state.Store(int32(StateUnregister))
}

// Start launches a worker pass from the current state. The previous pass
// must have finished.
func (c *Controller) Start() {
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.run()
	}()
}

// Done returns the channel closed when the current worker pass finishes.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the current worker pass finishes or the timeout
// elapses, and reports whether it finished.
func (c *Controller) Wait(timeout time.Duration) bool {
	if c.done == nil {
		return true
	}
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Teardown unregisters anything still registered and releases the
// registrar. Safe after cancellation mid-pass.
func (c *Controller) Teardown() {
	c.unregisterAll()
	if c.opts.Registrar != nil {
		c.opts.Registrar.Close()
	}
}

// run executes the state machine until Done, cancellation, or exit.
func (c *Controller) run() {
	for !c.cancelled.Load() && State(c.state.Load()) != StateDone {
		switch State(c.state.Load()) {
		case StateParseSubtitles:
			c.parseSubtitles()
			c.state.Store(int32(StateLoadCache))
		case StateLoadCache:
			if c.loadCache() {
				c.state.Store(int32(StateRegister))
			} else {
				c.state.Store(int32(StateScanFonts))
			}
		case StateScanFonts:
			c.scanFonts()
			c.state.Store(int32(StateRegister))
		case StateRegister:
			c.register()
			if c.cancelled.Load() {
				return
			}
			c.state.Store(int32(StateDone))
		case StateUnregister:
			c.unregisterAll()
			if c.reqExit.Load() {
				c.cancelled.Store(true)
				return
			}
			c.state.Store(int32(StateScanFonts))
		default:
			return
		}
	}
}

// parseSubtitles walks every input path and feeds face names into the
// deduplicated set, then anchors the process at the executable's directory
// for the font scan.
func (c *Controller) parseSubtitles() {
	faces := CollectFaces(c.opts.Paths, c.opts.MaxSubtitleSize, c.cancelled.Load, c.opts.Logger)
	for _, face := range faces {
		c.subFonts.Insert(face)
	}

	if c.opts.ChdirToExecutable {
		if exe, err := os.Executable(); err == nil {
			os.Chdir(filepath.Dir(exe))
		}
	}
}

// loadCache tries the persisted index and reports whether it is usable.
func (c *Controller) loadCache() bool {
	c.fontSet = nil
	loaded, err := index.Load(c.opts.CachePath)
	if err != nil {
		c.opts.Logger.Info("Font cache unusable, rescanning: %v", err)
		return false
	}
	st := loaded.Stat()
	if st.NumFaces == 0 {
		return false
	}
	c.fontSet = loaded
	c.publishStat()
	return true
}

// scanFonts rebuilds the index from the font directory and persists it.
func (c *Controller) scanFonts() {
	c.fontSet = BuildFontIndex(c.opts.FontDir, c.opts.Recursive, c.cancelled.Load, c.opts.Logger)
	c.publishStat()
	if c.cancelled.Load() {
		return
	}
	if err := c.fontSet.Dump(c.opts.CachePath); err != nil {
		c.opts.Logger.Error("Failed to persist font cache: %v", err)
	}
}

// register walks the face set in first-seen order and loads each matching
// file with the host. Shared files are registered once per face; the host
// refcounts.
func (c *Controller) register() {
	c.loaded.Store(0)
	c.failed.Store(0)
	c.unmatched.Store(0)

	c.subFonts.Each(func(face string) {
		if c.cancelled.Load() || c.opts.Registrar == nil {
			return
		}
		file, ok := c.lookup(face)
		if !ok {
			c.unmatched.Add(1)
			return
		}
		if err := c.opts.Registrar.Register(file); err != nil {
			c.opts.Logger.Warn("Failed to load %s (%s): %v", face, file, err)
			c.failed.Add(1)
			return
		}
		c.registered = append(c.registered, file)
		c.loaded.Add(1)
	})
}

// unregisterAll balances every successful registration and resets the
// counters.
func (c *Controller) unregisterAll() {
	for _, file := range c.registered {
		if err := c.opts.Registrar.Unregister(file); err != nil {
			c.opts.Logger.Warn("Failed to unload %s: %v", file, err)
		}
	}
	c.registered = nil
	c.loaded.Store(0)
	c.failed.Store(0)
	c.unmatched.Store(0)
}

func (c *Controller) lookup(face string) (string, bool) {
	if c.fontSet == nil {
		return "", false
	}
	return c.fontSet.Lookup(strings.TrimPrefix(face, "@"))
}

func (c *Controller) publishStat() {
	st := c.fontSet.Stat()
	c.numFiles.Store(int32(st.NumFiles))
	c.numFaces.Store(int32(st.NumFaces))
}

// FaceCount returns the number of distinct faces the subtitles referenced.
func (c *Controller) FaceCount() int {
	return c.subFonts.Len()
}

// Faces calls fn for every referenced face in first-seen order.
func (c *Controller) Faces(fn func(face string)) {
	c.subFonts.Each(fn)
}
