package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_PNG(t *testing.T) {
	format, err := Classify([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)
}

func TestClassify_JPEG(t *testing.T) {
	format, err := Classify([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, format)
}

func TestClassify_WEBP(t *testing.T) {
	data := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	data = append(data, []byte("WEBP")...)
	format, err := Classify(data)
	require.NoError(t, err)
	assert.Equal(t, FormatWEBP, format)
}

func TestClassify_RIFFWithoutWEBPMarker(t *testing.T) {
	data := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	data = append(data, []byte("WAVE")...)
	_, err := Classify(data)

	var invalidErr *InvalidFormatError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestClassify_TooShort(t *testing.T) {
	_, err := Classify([]byte{0x89, 0x50, 0x4E})
	require.Error(t, err)

	var invalidErr *InvalidFormatError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, 3, invalidErr.Length)
}

func TestClassify_UnknownPrefix(t *testing.T) {
	_, err := Classify([]byte{0x47, 0x49, 0x46, 0x38}) // GIF header

	var invalidErr *InvalidFormatError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestClassify_Empty(t *testing.T) {
	_, err := Classify(nil)

	var invalidErr *InvalidFormatError
	assert.ErrorAs(t, err, &invalidErr)
}
