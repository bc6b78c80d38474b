package fieldcompute

import (
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// maxPeekSize bounds how much of a file bytes_type inspects, matching
// the original engine's 1024-byte peek.
const maxPeekSize = 1024

// BytesType peeks at the first maxPeekSize bytes of a file and
// classifies them. A UTF-16 byte-order mark is sniffed directly since
// mimetype treats UTF-16 text as binary; anything else is handed to
// mimetype, and any non-text/plain-descended type is reported as
// "binary".
func BytesType(absPath string) (string, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	buf := make([]byte, maxPeekSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	buf = buf[:n]

	if len(buf) >= 2 {
		switch {
		case buf[0] == 0xFF && buf[1] == 0xFE:
			return "UTF-16LE", nil
		case buf[0] == 0xFE && buf[1] == 0xFF:
			return "UTF-16BE", nil
		}
	}

	for mtype := mimetype.Detect(buf); mtype != nil; mtype = mtype.Parent() {
		if mtype.Is("text/plain") {
			return "UTF-8", nil
		}
	}
	return "binary", nil
}

// IsBinary reports whether a file is binary, computing bytes_type
// transiently (without storing it) when not already known.
func IsBinary(absPath string, bytesType *string) (bool, error) {
	if bytesType != nil {
		return *bytesType == "binary", nil
	}
	bt, err := BytesType(absPath)
	if err != nil {
		return false, err
	}
	return bt == "binary", nil
}
