package inventory

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"
	"os"

	// Header decoders for the supported photo formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/driftwall/driftwall/pkg/errors"
)

// Dimensions reads the pixel width and height from an image file header
// without decoding pixel data. For JPEGs, EXIF orientations 5-8 (the
// rotated ones) swap the reported axes so the aspect ratio matches what a
// viewer displays.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeUnreadableImage, err, "open %s", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeUnreadableImage, err, "decode header of %s", path)
	}
	width, height = cfg.Width, cfg.Height

	if format == "jpeg" {
		if _, err := f.Seek(0, io.SeekStart); err == nil {
			if o := jpegOrientation(f); o >= 5 && o <= 8 {
				width, height = height, width
			}
		}
	}
	return width, height, nil
}

// jpegOrientation extracts the EXIF orientation (1-8) from a JPEG stream,
// or 0 when absent. It scans marker segments for APP1/Exif and reads TIFF
// tag 0x0112 from IFD0; anything malformed simply yields 0.
func jpegOrientation(r io.Reader) int {
	br := bufio.NewReader(r)

	var soi [2]byte
	if _, err := io.ReadFull(br, soi[:]); err != nil || soi != [2]byte{0xFF, 0xD8} {
		return 0
	}

	for {
		marker, err := br.ReadByte()
		if err != nil || marker != 0xFF {
			return 0
		}
		kind, err := br.ReadByte()
		if err != nil {
			return 0
		}
		// Padding bytes between segments.
		for kind == 0xFF {
			if kind, err = br.ReadByte(); err != nil {
				return 0
			}
		}
		// Start of scan or end of image: no EXIF ahead.
		if kind == 0xDA || kind == 0xD9 {
			return 0
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return 0
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf[:])) - 2
		if segLen < 0 {
			return 0
		}

		if kind != 0xE1 {
			if _, err := io.CopyN(io.Discard, br, int64(segLen)); err != nil {
				return 0
			}
			continue
		}

		payload := make([]byte, segLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return 0
		}
		if len(payload) < 6 || string(payload[:6]) != "Exif\x00\x00" {
			continue
		}
		return tiffOrientation(payload[6:])
	}
}

// tiffOrientation reads tag 0x0112 from the first IFD of a TIFF block.
func tiffOrientation(tiff []byte) int {
	if len(tiff) < 8 {
		return 0
	}

	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return 0
	}

	ifd := int(order.Uint32(tiff[4:8]))
	if ifd < 0 || ifd+2 > len(tiff) {
		return 0
	}

	count := int(order.Uint16(tiff[ifd : ifd+2]))
	for i := range count {
		entry := ifd + 2 + i*12
		if entry+12 > len(tiff) {
			return 0
		}
		if order.Uint16(tiff[entry:entry+2]) != 0x0112 {
			continue
		}
		o := int(order.Uint16(tiff[entry+8 : entry+10]))
		if o >= 1 && o <= 8 {
			return o
		}
		return 0
	}
	return 0
}
