// Package inventory enumerates the photo files a collage is built from.
//
// Scan walks a photo root and produces an ordered list of records,
// deterministically sorted by directory then filename, with image
// dimensions decoded from file headers (PNG, GIF, JPEG, WEBP) and JPEG
// EXIF orientation applied. The records feed the placement solver: the
// engine consumes width/height to derive each tile's aspect ratio, falling
// back to 4:3 when metadata is missing or unreadable.
package inventory

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/layout"
)

// Record describes one photo file.
type Record struct {
	// Path is the file path relative to the scanned root.
	Path string `json:"path"`

	// Dir is the directory portion of Path ("" for the root itself).
	Dir string `json:"dir"`

	// FolderName is the last element of Dir, used as the caption's
	// category label.
	FolderName string `json:"folder_name"`

	// Seq is the record's index within its directory.
	Seq int `json:"seq"`

	FileName string `json:"file_name"`

	// Width and Height are the pixel dimensions after EXIF orientation,
	// or 0 when the header could not be read.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// AspectRatio returns width/height, or the solver default when the
// dimensions are unknown.
func (r Record) AspectRatio() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return layout.DefaultAspectRatio
	}
	return float64(r.Width) / float64(r.Height)
}

// ScanOptions configures a Scan.
type ScanOptions struct {
	// FilterDir restricts the result to one directory name (a category
	// view). Empty means the whole tree.
	FilterDir string
}

// photoExtensions are the file types the inventory recognizes.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Scan walks root and returns the ordered photo records. Files whose image
// headers cannot be read are still listed, with zero dimensions; only a
// missing root is an error.
func Scan(root string, opts ScanOptions) ([]Record, error) {
	if err := errors.ValidateDirName(opts.FilterDir); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeDirNotFound, "photo root %q is not a directory", root)
	}

	var records []Record

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !photoExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		dir := ""
		if i := strings.LastIndex(rel, "/"); i >= 0 {
			dir = rel[:i]
		}
		if opts.FilterDir != "" && filepath.Base(dir) != opts.FilterDir {
			return nil
		}

		rec := Record{
			Path:       rel,
			Dir:        dir,
			FolderName: filepath.Base(dir),
			FileName:   d.Name(),
		}
		if dir == "" {
			rec.FolderName = ""
		}

		// Header decode failures degrade to the default aspect ratio.
		if w, h, err := Dimensions(path); err == nil {
			rec.Width, rec.Height = w, h
		}

		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan %s", root)
	}

	// WalkDir's lexical order puts root files after subdirectories; the
	// wall order is directory then filename, with root files first.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Dir != records[j].Dir {
			return records[i].Dir < records[j].Dir
		}
		return records[i].FileName < records[j].FileName
	})
	seqByDir := make(map[string]int)
	for i := range records {
		records[i].Seq = seqByDir[records[i].Dir]
		seqByDir[records[i].Dir]++
	}
	return records, nil
}

// Sources converts records into solver input, using the relative path as
// the stable item identity.
func Sources(records []Record) []layout.Source {
	out := make([]layout.Source, len(records))
	for i, r := range records {
		out[i] = layout.Source{ID: r.Path, AspectRatio: r.AspectRatio()}
	}
	return out
}
