package session

import (
	"os"

	"subfont/internal/arena"
	"subfont/internal/index"
	"subfont/internal/logging"
	"subfont/internal/sfnt"
	"subfont/internal/subtitle"
)

// CollectFaces walks the given subtitle paths and returns the deduplicated
// face names in first-seen order. cancelled may be nil. Files larger than
// maxSize and unreadable or undecodable files are skipped.
func CollectFaces(paths []string, maxSize int64, cancelled func() bool, logger *logging.Logger) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxSubtitleSize
	}
	set := arena.New()
	for _, root := range paths {
		if cancelled != nil && cancelled() {
			break
		}
		walk(root, true, func(path string, info os.FileInfo) error {
			if cancelled != nil && cancelled() {
				return errCancelled
			}
			if !subtitle.IsSubtitleFile(path) || info.Size() > maxSize {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("Skipping unreadable subtitle %s: %v", path, err)
				return nil
			}
			text, err := subtitle.Decode(data)
			if err != nil {
				logger.Warn("Skipping undecodable subtitle %s: %v", path, err)
				return nil
			}
			subtitle.ExtractFonts(text, func(name string) {
				set.Insert(name)
			})
			logger.Info("Parsed subtitle %s", path)
			return nil
		})
	}

	var faces []string
	set.Each(func(s string) { faces = append(faces, s) })
	return faces
}

// BuildFontIndex scans fontDir for font files and returns the finalized
// index. cancelled may be nil; a cancelled scan returns the partial index
// built so far.
func BuildFontIndex(fontDir string, recursive bool, cancelled func() bool, logger *logging.Logger) *index.Index {
	fontSet := index.New()
	walk(fontDir, recursive, func(path string, info os.FileInfo) error {
		if cancelled != nil && cancelled() {
			return errCancelled
		}
		data, err := os.ReadFile(path)
		if err != nil || !sfnt.IsFontFile(data) {
			return nil
		}
		before := fontSet.Stat().NumFaces
		if err := fontSet.Add(path, data); err != nil {
			logger.Warn("Skipping font %s: %v", path, err)
			return nil
		}
		if fontSet.Stat().NumFaces == before {
			// Well-signed font with an unusable naming table: fall back
			// to a filename-derived face name.
			fontSet.InsertFace(sfnt.NameFromFilename(path), path)
		}
		return nil
	})
	fontSet.BuildIndex()
	return fontSet
}
