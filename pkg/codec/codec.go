// Package codec converts attachment payloads to and from the base64 text they are stored as.
package codec

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Blob is a decoded payload tagged with its MIME type.
type Blob struct {
	Data []byte
	MIME string
}

func Encode(raw []byte) string { return base64.StdEncoding.EncodeToString(raw) }

// EncodeReader reads r to the end and encodes it.
func EncodeReader(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	return Encode(raw), nil
}

// Decode also accepts data URLs ("data:<mime>;base64,<payload>"); their MIME wins over mime.
func Decode(text, mime string) (Blob, error) {
	if rest, ok := strings.CutPrefix(text, "data:"); ok {
		head, payload, found := strings.Cut(rest, ",")
		if !found {
			return Blob{}, fmt.Errorf("decode attachment: malformed data url")
		}
		if m, _, _ := strings.Cut(head, ";"); m != "" {
			mime = m
		}
		text = payload
	}
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Blob{}, fmt.Errorf("decode attachment: %w", err)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return Blob{Data: raw, MIME: mime}, nil
}
