package session

import "fmt"

// State enumerates the worker's position in the load pipeline.
type State int32

const (
	StateIdle State = iota
	StateParseSubtitles
	StateLoadCache
	StateScanFonts
	StateRegister
	StateDone
	StateUnregister
)

// Label returns the short human string shown as the dialog heading.
func (s State) Label() string {
	switch s {
	case StateParseSubtitles:
		return "Subtitle"
	case StateLoadCache:
		return "Cache"
	case StateScanFonts:
		return "Font"
	case StateRegister:
		return "Load"
	case StateUnregister:
		return "Unload"
	case StateDone:
		return "Done"
	}
	return "?"
}

// Snapshot is the UI-visible view of the session: current state, the three
// registration counters, and the index statistics.
type Snapshot struct {
	State     State
	Loaded    uint32
	Failed    uint32
	Unmatched uint32
	NumFiles  int
	NumFaces  int
}

// StatusText renders the two-line progress string.
func (s Snapshot) StatusText() string {
	return fmt.Sprintf("%d loaded. %d failed. %d unmatch.\n%d file%s. %d font%s.",
		s.Loaded, s.Failed, s.Unmatched,
		s.NumFiles, plural(s.NumFiles), s.NumFaces, plural(s.NumFaces))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
