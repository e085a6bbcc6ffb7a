// Package archive copies dashboard CSV exports to S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

// KeyPrefix is where exports land in the bucket.
const KeyPrefix = "exports/"

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store archives CSV exports. If bucket is empty, all operations are no-ops.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

// NewStore creates an archive Store.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger, now: time.Now}
}

// Enabled returns true if archival is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// Key returns the object key for an export filename taken at the given
// time. The UTC time of day is added before the extension so several exports
// on one day each keep their own object.
func Key(filename string, at time.Time) string {
	base := path.Base(filename)
	ext := path.Ext(base)
	stamp := at.UTC().Format("150405.000000000") + "Z"
	return KeyPrefix + strings.TrimSuffix(base, ext) + "-" + stamp + ext
}

// ArchiveExport uploads one CSV export under exports/.
func (s *Store) ArchiveExport(ctx context.Context, filename string, data []byte, rows int) error {
	if !s.Enabled() {
		return nil
	}

	exportedAt := s.now()
	key := Key(filename, exportedAt)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
		Metadata: map[string]string{
			"rows":        fmt.Sprintf("%d", rows),
			"exported-at": exportedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived lead export to S3", "s3_key", key, "rows", rows, "bytes", len(data))
	return nil
}
