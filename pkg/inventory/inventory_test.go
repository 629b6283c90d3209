package inventory

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/layout"
)

// writeImage encodes a w×h image at path in the format implied by ext.
func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test extension %s", path)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// testTree creates a small photo library and returns its root.
func testTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, dir := range []string{"alpha", "beta", ".thumbs"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	writeImage(t, filepath.Join(root, "a1.png"), 320, 240)
	writeImage(t, filepath.Join(root, "alpha", "x.jpg"), 640, 480)
	writeImage(t, filepath.Join(root, "alpha", "y.gif"), 100, 100)
	writeImage(t, filepath.Join(root, "beta", "z.png"), 300, 400)
	writeImage(t, filepath.Join(root, ".thumbs", "t.png"), 10, 10)

	if err := os.WriteFile(filepath.Join(root, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestScanOrderingAndMetadata(t *testing.T) {
	records, err := Scan(testTree(t), ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// Wall order groups by directory then filename, root files first.
	wantPaths := []string{"a1.png", "broken.jpg", "alpha/x.jpg", "alpha/y.gif", "beta/z.png"}
	if len(records) != len(wantPaths) {
		t.Fatalf("scanned %d records, want %d", len(records), len(wantPaths))
	}
	for i, want := range wantPaths {
		if records[i].Path != want {
			t.Errorf("records[%d].Path = %q, want %q", i, records[i].Path, want)
		}
	}

	byPath := make(map[string]Record)
	for _, r := range records {
		byPath[r.Path] = r
	}

	if r := byPath["a1.png"]; r.Width != 320 || r.Height != 240 || r.Dir != "" || r.FolderName != "" {
		t.Errorf("a1.png record = %+v", r)
	}
	if r := byPath["alpha/x.jpg"]; r.Width != 640 || r.FolderName != "alpha" || r.Seq != 0 {
		t.Errorf("alpha/x.jpg record = %+v", r)
	}
	if r := byPath["alpha/y.gif"]; r.Seq != 1 {
		t.Errorf("alpha/y.gif Seq = %d, want 1", r.Seq)
	}

	// Unreadable headers degrade to zero dimensions and the default ratio.
	if r := byPath["broken.jpg"]; r.Width != 0 || r.AspectRatio() != layout.DefaultAspectRatio {
		t.Errorf("broken.jpg record = %+v, aspect %v", r, r.AspectRatio())
	}
}

func TestScanRootFilesSortBeforeSubdirectories(t *testing.T) {
	// A root file whose name sorts after a subdirectory name must still
	// come first: the order key is (directory, filename), not the path.
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeImage(t, filepath.Join(root, "zz.png"), 20, 20)
	writeImage(t, filepath.Join(root, "alpha", "x.png"), 20, 20)

	records, err := Scan(root, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("scanned %d records, want 2", len(records))
	}
	if records[0].Path != "zz.png" || records[1].Path != "alpha/x.png" {
		t.Errorf("order = [%s %s], want [zz.png alpha/x.png]", records[0].Path, records[1].Path)
	}
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.Dir > cur.Dir || (prev.Dir == cur.Dir && prev.FileName > cur.FileName) {
			t.Errorf("records[%d] %q out of order after %q", i, cur.Path, prev.Path)
		}
	}
}

func TestScanFilterDir(t *testing.T) {
	records, err := Scan(testTree(t), ScanOptions{FilterDir: "alpha"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("filtered scan returned %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.FolderName != "alpha" {
			t.Errorf("record %q escaped the filter", r.Path)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"), ScanOptions{})
	if !errors.Is(err, errors.ErrCodeDirNotFound) {
		t.Errorf("Scan() error = %v, want %s", err, errors.ErrCodeDirNotFound)
	}
}

func TestScanInvalidFilter(t *testing.T) {
	_, err := Scan(t.TempDir(), ScanOptions{FilterDir: "../escape"})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Scan() error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestSources(t *testing.T) {
	records := []Record{
		{Path: "a.jpg", Width: 1500, Height: 1000},
		{Path: "b.jpg"},
	}
	sources := Sources(records)
	if sources[0].ID != "a.jpg" || sources[0].AspectRatio != 1.5 {
		t.Errorf("sources[0] = %+v", sources[0])
	}
	if sources[1].AspectRatio != layout.DefaultAspectRatio {
		t.Errorf("sources[1].AspectRatio = %v, want default", sources[1].AspectRatio)
	}
}

// exifAPP1 builds an APP1 segment holding a TIFF block with the given
// orientation tag.
func exifAPP1(orientation uint16, order binary.ByteOrder) []byte {
	tiff := &bytes.Buffer{}
	if order == binary.BigEndian {
		tiff.WriteString("MM")
	} else {
		tiff.WriteString("II")
	}
	binary.Write(tiff, order, uint16(42))
	binary.Write(tiff, order, uint32(8)) // IFD0 offset
	binary.Write(tiff, order, uint16(1)) // entry count
	binary.Write(tiff, order, uint16(0x0112))
	binary.Write(tiff, order, uint16(3)) // SHORT
	binary.Write(tiff, order, uint32(1))
	binary.Write(tiff, order, orientation)
	binary.Write(tiff, order, uint16(0)) // value padding
	binary.Write(tiff, order, uint32(0)) // next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// withEXIF splices an APP1 segment into a JPEG right after SOI.
func withEXIF(jpegData []byte, app1 []byte) []byte {
	out := make([]byte, 0, len(jpegData)+len(app1))
	out = append(out, jpegData[:2]...)
	out = append(out, app1...)
	return append(out, jpegData[2:]...)
}

func TestJPEGOrientation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, img, nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		data        []byte
		orientation int
	}{
		{"no exif", plain.Bytes(), 0},
		{"orientation 1 big endian", withEXIF(plain.Bytes(), exifAPP1(1, binary.BigEndian)), 1},
		{"orientation 6 big endian", withEXIF(plain.Bytes(), exifAPP1(6, binary.BigEndian)), 6},
		{"orientation 8 little endian", withEXIF(plain.Bytes(), exifAPP1(8, binary.LittleEndian)), 8},
		{"garbage", []byte("garbage"), 0},
		{"truncated", plain.Bytes()[:3], 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jpegOrientation(bytes.NewReader(tt.data)); got != tt.orientation {
				t.Errorf("jpegOrientation() = %d, want %d", got, tt.orientation)
			}
		})
	}
}

func TestDimensionsSwapsRotatedJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, img, nil); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	rotated := filepath.Join(dir, "rotated.jpg")
	if err := os.WriteFile(rotated, withEXIF(plain.Bytes(), exifAPP1(6, binary.BigEndian)), 0o644); err != nil {
		t.Fatal(err)
	}

	w, h, err := Dimensions(rotated)
	if err != nil {
		t.Fatalf("Dimensions() error = %v", err)
	}
	if w != 48 || h != 64 {
		t.Errorf("Dimensions() = %d×%d, want 48×64 (axes swapped)", w, h)
	}
}
