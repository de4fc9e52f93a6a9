package session

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"subfont/internal/logging"
)

// fakeRegistrar records host calls in order. onRegister runs before each
// successful registration is recorded.
type fakeRegistrar struct {
	mu           sync.Mutex
	registered   []string
	unregistered []string
	failFor      map[string]bool
	onRegister   func(n int)
}

func (f *fakeRegistrar) Register(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onRegister != nil {
		f.onRegister(len(f.registered))
	}
	if f.failFor[path] {
		return fmt.Errorf("refused: %s", path)
	}
	f.registered = append(f.registered, path)
	return nil
}

func (f *fakeRegistrar) Unregister(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = append(f.unregistered, path)
	return nil
}

func (f *fakeRegistrar) Close() error { return nil }

// fontWithFamily builds a minimal font advertising one family name.
func fontWithFamily(name string) []byte {
	var val []byte
	for _, c := range name {
		val = append(val, byte(c>>8), byte(c))
	}

	table := make([]byte, 18)
	binary.BigEndian.PutUint16(table[2:], 1)
	binary.BigEndian.PutUint16(table[4:], 18)
	binary.BigEndian.PutUint16(table[6:], 3)
	binary.BigEndian.PutUint16(table[8:], 1)
	binary.BigEndian.PutUint16(table[12:], 1) // family name id
	binary.BigEndian.PutUint16(table[14:], uint16(len(val)))
	table = append(table, val...)

	font := make([]byte, 28)
	binary.BigEndian.PutUint32(font[0:], 0x00010000)
	binary.BigEndian.PutUint16(font[4:], 1)
	copy(font[12:], "name")
	binary.BigEndian.PutUint32(font[20:], 28)
	binary.BigEndian.PutUint32(font[24:], uint32(len(table)))
	return append(font, table...)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewWithPath(logging.DefaultConfig(), filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

// setupSession builds a font dir with the given faces and a subtitle
// referencing refs, and returns a ready controller plus its registrar.
func setupSession(t *testing.T, faces, refs []string) (*Controller, *fakeRegistrar, string) {
	t.Helper()
	dir := t.TempDir()
	for i, face := range faces {
		writeFile(t, filepath.Join(dir, fmt.Sprintf("font%03d.ttf", i)), fontWithFamily(face))
	}

	var sub strings.Builder
	sub.WriteString("[V4+ Styles]\n")
	for i, face := range refs {
		fmt.Fprintf(&sub, "Style: S%d,%s,20\n", i, face)
	}
	subPath := filepath.Join(dir, "movie.ass")
	writeFile(t, subPath, []byte(sub.String()))

	reg := &fakeRegistrar{}
	c := New(Options{
		Paths:     []string{subPath},
		CachePath: filepath.Join(dir, "fc-subs.db"),
		FontDir:   dir,
		Recursive: true,
		Registrar: reg,
		Logger:    testLogger(t),
	})
	return c, reg, dir
}

func runToCompletion(t *testing.T, c *Controller) {
	t.Helper()
	c.Start()
	if !c.Wait(15 * time.Second) {
		t.Fatal("worker did not finish")
	}
}

func TestRegisterCounters(t *testing.T) {
	c, reg, _ := setupSession(t, []string{"Arial", "Meiryo"}, []string{"Arial", "Meiryo", "NoSuch"})
	runToCompletion(t, c)

	snap := c.Snapshot()
	if snap.State != StateDone {
		t.Fatalf("state = %v, expected Done", snap.State)
	}
	if snap.Loaded != 2 || snap.Failed != 0 || snap.Unmatched != 1 {
		t.Errorf("counters = %d/%d/%d, expected 2/0/1", snap.Loaded, snap.Failed, snap.Unmatched)
	}
	if total := snap.Loaded + snap.Failed + snap.Unmatched; int(total) != c.FaceCount() {
		t.Errorf("counter sum %d != face count %d", total, c.FaceCount())
	}
	if len(reg.registered) != 2 {
		t.Errorf("host register calls = %d, expected 2", len(reg.registered))
	}
}

func TestRegisterFailureCounted(t *testing.T) {
	c, reg, dir := setupSession(t, []string{"Arial", "Meiryo"}, []string{"Arial", "Meiryo"})
	reg.failFor = map[string]bool{filepath.Join(dir, "font000.ttf"): true}
	runToCompletion(t, c)

	snap := c.Snapshot()
	if snap.Loaded != 1 || snap.Failed != 1 || snap.Unmatched != 0 {
		t.Errorf("counters = %d/%d/%d, expected 1/1/0", snap.Loaded, snap.Failed, snap.Unmatched)
	}
}

func TestUnregisterBalancesRegister(t *testing.T) {
	c, reg, _ := setupSession(t, []string{"Arial", "Meiryo"}, []string{"Arial", "Meiryo"})
	runToCompletion(t, c)

	c.RequestExit()
	runToCompletion(t, c)

	if len(reg.unregistered) != len(reg.registered) {
		t.Fatalf("unregister calls = %d, register calls = %d", len(reg.unregistered), len(reg.registered))
	}
	for i := range reg.registered {
		if reg.unregistered[i] != reg.registered[i] {
			t.Errorf("unregister[%d] = %s, expected %s", i, reg.unregistered[i], reg.registered[i])
		}
	}
	snap := c.Snapshot()
	if snap.Loaded != 0 || snap.Failed != 0 || snap.Unmatched != 0 {
		t.Errorf("counters not reset: %d/%d/%d", snap.Loaded, snap.Failed, snap.Unmatched)
	}
	if !c.Cancelled() {
		t.Error("expected session to terminate after exit request")
	}
}

func TestRetryRescansAndRegistersAgain(t *testing.T) {
	c, reg, _ := setupSession(t, []string{"Arial"}, []string{"Arial"})
	runToCompletion(t, c)

	c.Retry()
	runToCompletion(t, c)

	snap := c.Snapshot()
	if snap.State != StateDone {
		t.Fatalf("state after retry = %v, expected Done", snap.State)
	}
	if snap.Loaded != 1 {
		t.Errorf("loaded after retry = %d, expected 1", snap.Loaded)
	}
	if len(reg.registered) != 2 || len(reg.unregistered) != 1 {
		t.Errorf("register/unregister calls = %d/%d, expected 2/1", len(reg.registered), len(reg.unregistered))
	}
}

func TestCancelMidRegister(t *testing.T) {
	var faces []string
	for i := 0; i < 100; i++ {
		faces = append(faces, fmt.Sprintf("Face%02d", i))
	}
	c, reg, _ := setupSession(t, faces, faces)
	reg.onRegister = func(n int) {
		if n == 10 {
			c.Cancel()
		}
	}
	runToCompletion(t, c)

	snap := c.Snapshot()
	if total := snap.Loaded + snap.Failed; total > 11 {
		t.Errorf("loaded+failed = %d after cancel at 10", total)
	}
	if !c.Cancelled() {
		t.Error("expected cancelled session")
	}

	loaded := snap.Loaded
	c.Teardown()
	if uint32(len(reg.unregistered)) != loaded {
		t.Errorf("unregister calls = %d, expected %d", len(reg.unregistered), loaded)
	}
	for i := range reg.unregistered {
		if reg.unregistered[i] != reg.registered[i] {
			t.Errorf("unregister order diverges at %d", i)
		}
	}
}

func TestCacheMissThenHit(t *testing.T) {
	c, _, dir := setupSession(t, []string{"Arial"}, []string{"Arial"})
	cachePath := filepath.Join(dir, "fc-subs.db")
	runToCompletion(t, c)

	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache not persisted after scan: %v", err)
	}

	// Remove the font files; only the cache can resolve the face now.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".ttf") {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}

	reg2 := &fakeRegistrar{}
	c2 := New(Options{
		Paths:     []string{filepath.Join(dir, "movie.ass")},
		CachePath: cachePath,
		FontDir:   dir,
		Recursive: true,
		Registrar: reg2,
		Logger:    testLogger(t),
	})
	runToCompletion(t, c2)

	snap := c2.Snapshot()
	if snap.Loaded != 1 {
		t.Errorf("loaded from cache = %d, expected 1", snap.Loaded)
	}
}

func TestCorruptCacheFallsBackToScan(t *testing.T) {
	c, _, dir := setupSession(t, []string{"Arial"}, []string{"Arial"})
	writeFile(t, filepath.Join(dir, "fc-subs.db"), []byte("garbage"))
	runToCompletion(t, c)

	snap := c.Snapshot()
	if snap.Loaded != 1 {
		t.Errorf("loaded = %d, expected 1 via rescan", snap.Loaded)
	}
}

func TestOversizeSubtitleSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.ass"), []byte("[V4+ Styles]\nStyle: S,Arial,20\n"))

	c := New(Options{
		Paths:           []string{dir},
		CachePath:       filepath.Join(dir, "fc-subs.db"),
		FontDir:         dir,
		Recursive:       true,
		MaxSubtitleSize: 4, // smaller than the file
		Registrar:       &fakeRegistrar{},
		Logger:          testLogger(t),
	})
	runToCompletion(t, c)

	if n := c.FaceCount(); n != 0 {
		t.Errorf("face count = %d, expected 0 for oversize subtitle", n)
	}
}

func TestVerticalMarkerSharesEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "font.ttf"), fontWithFamily("Meiryo"))
	writeFile(t, filepath.Join(dir, "a.ass"),
		[]byte("[Events]\nDialogue: 0,0,0,S,,0,0,0,,{\\fn@Meiryo}x{\\fnMeiryo}y\n"))

	reg := &fakeRegistrar{}
	c := New(Options{
		Paths:     []string{filepath.Join(dir, "a.ass")},
		CachePath: filepath.Join(dir, "fc-subs.db"),
		FontDir:   dir,
		Recursive: true,
		Registrar: reg,
		Logger:    testLogger(t),
	})
	runToCompletion(t, c)

	if n := c.FaceCount(); n != 1 {
		t.Errorf("face count = %d, expected 1 (@ variant dedups)", n)
	}
	if snap := c.Snapshot(); snap.Loaded != 1 || snap.Unmatched != 0 {
		t.Errorf("counters = %d/%d/%d", snap.Loaded, snap.Failed, snap.Unmatched)
	}
}

// Faces seen in a second file must fold into the entries the first file
// established, keeping first-seen order.
func TestCollectFacesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ep1.ass"), []byte("[V4+ Styles]\nStyle: A,Arial,1\nStyle: B,Meiryo,1\n"))
	writeFile(t, filepath.Join(dir, "ep2.ass"), []byte("[V4+ Styles]\nStyle: A,arial,1\nStyle: B,MEIRYO,1\n"))

	faces := CollectFaces([]string{dir}, 0, nil, testLogger(t))
	want := []string{"Arial", "Meiryo"}
	if len(faces) != len(want) {
		t.Fatalf("CollectFaces() = %v, expected %v", faces, want)
	}
	for i := range want {
		if faces[i] != want[i] {
			t.Errorf("faces[%d] = %q, expected %q", i, faces[i], want[i])
		}
	}
}

func TestStatusText(t *testing.T) {
	snap := Snapshot{State: StateRegister, Loaded: 2, Failed: 0, Unmatched: 1, NumFiles: 1, NumFaces: 3}
	want := "2 loaded. 0 failed. 1 unmatch.\n1 file. 3 fonts."
	if got := snap.StatusText(); got != want {
		t.Errorf("StatusText() = %q, expected %q", got, want)
	}
	if StateRegister.Label() != "Load" || StateScanFonts.Label() != "Font" {
		t.Error("unexpected state labels")
	}
}
