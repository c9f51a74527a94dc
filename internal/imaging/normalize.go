package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"
)

// Normalize decodes a classified image and re-encodes it as PNG, preserving
// the alpha channel, so downstream handling is uniform regardless of the
// source format. A decode failure after a valid signature returns a
// ProcessingError.
func Normalize(data []byte, format Format) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch format {
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatWEBP:
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, &InvalidFormatError{Length: len(data)}
	}
	if err != nil {
		return nil, &ProcessingError{Format: format, Cause: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &ProcessingError{Format: format, Cause: err}
	}
	return buf.Bytes(), nil
}
