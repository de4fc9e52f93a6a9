package arena

import (
	"strings"
	"unicode/utf16"
)

// Handle is a stable offset to a string stored in an Arena. Handles remain
// valid until the Arena is rewound past them.
type Handle uint32

// Arena is an append-only store of NUL-terminated UTF-16 strings. Every
// stored string keeps its offset for the lifetime of the arena, so other
// components can hold Handles instead of copies.
type Arena struct {
	buf []uint16
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Tell returns the handle the next Push will return.
func (a *Arena) Tell() Handle {
	return Handle(len(a.buf))
}

// Push appends s followed by a terminator and returns its handle.
func (a *Arena) Push(s string) Handle {
	h := Handle(len(a.buf))
	a.buf = append(a.buf, utf16.Encode([]rune(s))...)
	a.buf = append(a.buf, 0)
	return h
}

// Get returns the string stored at h.
func (a *Arena) Get(h Handle) string {
	i := int(h)
	j := i
	for j < len(a.buf) && a.buf[j] != 0 {
		j++
	}
	return string(utf16.Decode(a.buf[i:j]))
}

// Next returns the handle of the string immediately following h.
func (a *Arena) Next(h Handle) Handle {
	i := int(h)
	for i < len(a.buf) && a.buf[i] != 0 {
		i++
	}
	return Handle(i + 1)
}

// IsDuplicate reports whether any string stored in [from, h) equals the
// string at h under case-insensitive comparison.
func (a *Arena) IsDuplicate(from, h Handle) bool {
	cand := a.Get(h)
	for p := from; p < h; p = a.Next(p) {
		if strings.EqualFold(a.Get(p), cand) {
			return true
		}
	}
	return false
}

// Rewind truncates the arena back to h, discarding every string stored at or
// after it.
func (a *Arena) Rewind(h Handle) {
	if int(h) <= len(a.buf) {
		a.buf = a.buf[:h]
	}
}

// Len returns the number of stored strings.
func (a *Arena) Len() int {
	n := 0
	for _, u := range a.buf {
		if u == 0 {
			n++
		}
	}
	return n
}

// Insert pushes s unless an equal string (case-insensitive) is already
// stored, and reports whether s was newly added.
func (a *Arena) Insert(s string) bool {
	h := a.Push(s)
	if a.IsDuplicate(0, h) {
		a.Rewind(h)
		return false
	}
	return true
}

// Each calls fn for every stored string in insertion order.
func (a *Arena) Each(fn func(s string)) {
	for p := Handle(0); int(p) < len(a.buf); p = a.Next(p) {
		fn(a.Get(p))
	}
}
