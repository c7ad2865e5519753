package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/media/sniffer"
)

// memoryFile adapts a byte slice to the multipart.File interface.
type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func coverInput(data []byte, declaredType string) CoverUploadInput {
	header := &multipart.FileHeader{
		Filename: "cover.img",
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{},
	}
	if declaredType != "" {
		header.Header.Set("Content-Type", declaredType)
	}
	return CoverUploadInput{
		File:   memoryFile{bytes.NewReader(data)},
		Header: header,
	}
}

// The object store is nil on purpose: every rejection below must happen
// before any storage call, so a reached PutObject panics the test.
func newRejectingUploadService() *UploadService {
	return NewUploadService(nil, &config.AppConfig{}, zerolog.Nop())
}

var jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func TestUploadCoverMissingFile(t *testing.T) {
	svc := newRejectingUploadService()

	_, err := svc.UploadCover(context.Background(), CoverUploadInput{})
	if !errors.Is(err, ErrCoverMissing) {
		t.Fatalf("err = %v, want ErrCoverMissing", err)
	}
}

func TestUploadCoverEmptyFile(t *testing.T) {
	svc := newRejectingUploadService()

	_, err := svc.UploadCover(context.Background(), coverInput(nil, "image/jpeg"))
	if !errors.Is(err, ErrCoverEmpty) {
		t.Fatalf("err = %v, want ErrCoverEmpty", err)
	}
}

func TestUploadCoverTooLargeByHeader(t *testing.T) {
	svc := newRejectingUploadService()

	input := coverInput(jpegHead, "image/jpeg")
	input.Header.Size = maxCoverBytes + 1

	_, err := svc.UploadCover(context.Background(), input)
	if !errors.Is(err, ErrCoverTooLarge) {
		t.Fatalf("err = %v, want ErrCoverTooLarge", err)
	}
}

func TestUploadCoverUnsupportedType(t *testing.T) {
	svc := newRejectingUploadService()

	_, err := svc.UploadCover(context.Background(), coverInput([]byte("%PDF-1.7 not an image"), ""))
	if !errors.Is(err, sniffer.ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestUploadCoverDeclaredTypeMismatch(t *testing.T) {
	svc := newRejectingUploadService()

	// JPEG magic bytes under a PNG declaration.
	_, err := svc.UploadCover(context.Background(), coverInput(jpegHead, "image/png"))
	if !errors.Is(err, ErrCoverTypeMismatch) {
		t.Fatalf("err = %v, want ErrCoverTypeMismatch", err)
	}
}
