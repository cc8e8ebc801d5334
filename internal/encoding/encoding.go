// Package encoding turns arbitrarily-encoded input into a UTF-8 stream.
// Retail exports in the wild arrive as windows-1252, latin-1, or UTF-16 with
// or without a BOM, and the CSV layer downstream assumes UTF-8, so every
// source file passes through DecodeReader first.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeReader wraps r with whatever decoding is needed to yield UTF-8.
//
// Detection order:
//  1. BOM: a UTF-8 BOM is stripped, UTF-16 LE/BE is decoded.
//  2. Content that already validates as UTF-8 passes through untouched.
//  3. chardet heuristics over the first few KB.
//  4. Fallback to windows-1252, which subsumes latin-1 for the byte values
//     that actually occur in sales exports.
func DecodeReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek input: %w", err)
	}

	if bytes.HasPrefix(head, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}
	if bytes.HasPrefix(head, bomUTF16LE) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), nil
	}
	if bytes.HasPrefix(head, bomUTF16BE) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	det := chardet.NewTextDetector()
	if best, derr := det.DetectBest(head); derr == nil {
		switch best.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
