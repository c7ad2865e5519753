package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/ids"
	"bookwise/api/internal/media/sniffer"
	"bookwise/api/internal/storage"
)

const maxCoverBytes = 5 << 20

var (
	ErrCoverTooLarge     = errors.New("cover image exceeds size limit")
	ErrCoverMissing      = errors.New("missing cover file payload")
	ErrCoverEmpty        = errors.New("empty cover file")
	ErrCoverTypeMismatch = errors.New("declared content type does not match file content")
)

type UploadService struct {
	store *storage.ObjectStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type CoverUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type CoverUploadResult struct {
	ObjectKey string
	URL       string
	SizeBytes int64
}

// UploadCover validates and stores a cover image, returning the public URL
// to persist on the owning catalog entity.
func (s *UploadService) UploadCover(ctx context.Context, input CoverUploadInput) (CoverUploadResult, error) {
	if input.File == nil || input.Header == nil {
		return CoverUploadResult{}, ErrCoverMissing
	}
	if input.Header.Size > maxCoverBytes {
		return CoverUploadResult{}, ErrCoverTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxCoverBytes+1))
	if err != nil {
		return CoverUploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return CoverUploadResult{}, ErrCoverEmpty
	}
	if len(data) > maxCoverBytes {
		return CoverUploadResult{}, ErrCoverTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return CoverUploadResult{}, fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(input.Header.Header)
	if declared != "" && declared != result.MIME {
		return CoverUploadResult{}, fmt.Errorf("%w: declared %s, actual %s", ErrCoverTypeMismatch, declared, result.MIME)
	}

	objectKey := s.buildObjectKey(result.Ext)

	uploadInfo, err := s.store.Client().PutObject(ctx, s.cfg.Storage.BucketCovers, objectKey,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: result.MIME})
	if err != nil {
		return CoverUploadResult{}, fmt.Errorf("put object: %w", err)
	}

	return CoverUploadResult{
		ObjectKey: objectKey,
		URL:       s.store.PublicURL(objectKey),
		SizeBytes: uploadInfo.Size,
	}, nil
}

func (s *UploadService) buildObjectKey(ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", ids.New(), ext))
}
