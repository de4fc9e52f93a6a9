// Package index maintains the mapping from font face names to the files
// that provide them, and persists it as a compact binary cache so later
// sessions can skip the directory scan.
package index

import (
	"sort"
	"strings"

	"subfont/internal/sfnt"
)

// Stat summarizes an index.
type Stat struct {
	NumFiles int
	NumFaces int
}

type faceEntry struct {
	name string
	file int32
}

type lookupEntry struct {
	fold string
	file int32
}

// Index maps face names to owning file paths. Face matching is
// case-insensitive; on a name collision the first insertion wins, which
// keeps results stable for a given directory ordering.
type Index struct {
	files     []string
	fileIndex map[string]int32
	faces     []faceEntry
	seen      map[string]bool
	lookup    []lookupEntry
}

// New returns an empty index.
func New() *Index {
	return &Index{
		fileIndex: make(map[string]int32),
		seen:      make(map[string]bool),
	}
}

// Add reads every face name the font file at path advertises and inserts
// the (face, path) pairs. Unreadable or unrecognized fonts return an error
// and leave the index unchanged.
func (x *Index) Add(path string, data []byte) error {
	names, err := sfnt.ReadFaceNames(data)
	if err != nil {
		return err
	}
	for _, name := range names {
		x.insert(name, path)
	}
	return nil
}

// InsertFace records one explicit (face, path) pair, subject to the same
// first-writer-wins rule as Add.
func (x *Index) InsertFace(face, path string) {
	face = strings.TrimSpace(face)
	if face == "" {
		return
	}
	x.insert(face, path)
}

func (x *Index) insert(face, path string) {
	fold := strings.ToLower(face)
	if x.seen[fold] {
		return
	}
	x.seen[fold] = true

	fi, ok := x.fileIndex[path]
	if !ok {
		fi = int32(len(x.files))
		x.files = append(x.files, path)
		x.fileIndex[path] = fi
	}
	x.faces = append(x.faces, faceEntry{name: face, file: fi})
	x.lookup = nil
}

// BuildIndex finalizes the lookup structure. Call it once after the last
// Add; Lookup on an unfinalized index finds nothing.
func (x *Index) BuildIndex() {
	x.lookup = make([]lookupEntry, len(x.faces))
	for i, f := range x.faces {
		x.lookup[i] = lookupEntry{fold: strings.ToLower(f.name), file: f.file}
	}
	sort.Slice(x.lookup, func(i, j int) bool { return x.lookup[i].fold < x.lookup[j].fold })
}

// Lookup resolves a face name to its file path. The match is
// case-insensitive; a leading '@' on the query is the caller's business.
func (x *Index) Lookup(face string) (string, bool) {
	fold := strings.ToLower(face)
	i := sort.Search(len(x.lookup), func(i int) bool { return x.lookup[i].fold >= fold })
	if i < len(x.lookup) && x.lookup[i].fold == fold {
		return x.files[x.lookup[i].file], true
	}
	return "", false
}

// Stat returns the distinct file and face counts.
func (x *Index) Stat() Stat {
	return Stat{NumFiles: len(x.files), NumFaces: len(x.faces)}
}

// Faces calls fn for every (face, path) pair in insertion order.
func (x *Index) Faces(fn func(face, path string)) {
	for _, f := range x.faces {
		fn(f.name, x.files[f.file])
	}
}
