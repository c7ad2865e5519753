package sniffer

import (
	"errors"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		mime string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, "image/png"},
		{"gif", []byte("GIF89a0000"), "image/gif"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBPVP8 ")...), "image/webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			if err != nil {
				t.Fatalf("DetectHead: %v", err)
			}
			if result.MIME != tc.mime {
				t.Fatalf("mime = %q, want %q", result.MIME, tc.mime)
			}
		})
	}
}

func TestDetectHeadUnsupported(t *testing.T) {
	if _, err := DetectHead([]byte("%PDF-1.7 something")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
	if _, err := DetectHead(nil); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}
