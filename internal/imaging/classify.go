package imaging

import "bytes"

// Format identifies a recognized image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWEBP Format = "webp"
)

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// Classify inspects the leading bytes of data and reports its image format.
// Payloads shorter than 4 bytes or with an unknown signature return an
// InvalidFormatError.
func Classify(data []byte) (Format, error) {
	if len(data) < 4 {
		return "", &InvalidFormatError{Length: len(data)}
	}

	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, riffMagic) && len(data) >= 12 && bytes.Equal(data[8:12], webpMagic):
		return FormatWEBP, nil
	default:
		return "", &InvalidFormatError{Length: len(data)}
	}
}
