package sniffer

import (
	"bytes"
	"errors"
	"net/textproto"
)

var ErrUnsupportedType = errors.New("unsupported image type")

type Result struct {
	MIME string
	Ext  string
}

// DetectHead identifies the image type from the leading bytes of the file.
// Only raster formats suitable for cover art are accepted.
func DetectHead(head []byte) (Result, error) {
	switch {
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8, 0xFF}):
		return Result{MIME: "image/jpeg", Ext: "jpg"}, nil
	case bytes.HasPrefix(head, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return Result{MIME: "image/png", Ext: "png"}, nil
	case bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a")):
		return Result{MIME: "image/gif", Ext: "gif"}, nil
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return Result{MIME: "image/webp", Ext: "webp"}, nil
	}
	return Result{}, ErrUnsupportedType
}

// MimeTypeFromHTTP extracts the declared content type, if any, from the
// multipart part headers.
func MimeTypeFromHTTP(header textproto.MIMEHeader) string {
	return header.Get("Content-Type")
}
