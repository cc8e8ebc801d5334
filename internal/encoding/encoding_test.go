package encoding

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, in []byte) string {
	t.Helper()
	r, err := DecodeReader(strings.NewReader(string(in)))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestDecodeReader_PlainUTF8(t *testing.T) {
	got := decodeAll(t, []byte("InvoiceNo,Country\n536365,Élysée\n"))
	require.Equal(t, "InvoiceNo,Country\n536365,Élysée\n", got)
}

func TestDecodeReader_UTF8BOMStripped(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("abc")...)
	require.Equal(t, "abc", decodeAll(t, in))
}

func TestDecodeReader_UTF16LE(t *testing.T) {
	// "hi" in UTF-16 LE with BOM.
	in := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
	require.Equal(t, "hi", decodeAll(t, in))
}

func TestDecodeReader_UTF16BE(t *testing.T) {
	in := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}
	require.Equal(t, "hi", decodeAll(t, in))
}

func TestDecodeReader_Windows1252Fallback(t *testing.T) {
	// 0xE9 is 'é' in windows-1252 and invalid as standalone UTF-8.
	in := []byte("caf\xe9 250ml\n")
	got := decodeAll(t, in)
	require.Contains(t, got, "café")
}

func TestDecodeReader_EmptyInput(t *testing.T) {
	require.Equal(t, "", decodeAll(t, nil))
}
