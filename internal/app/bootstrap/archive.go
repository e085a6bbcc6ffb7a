package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bridgei2p/leadportal/internal/archive"
	appconfig "github.com/bridgei2p/leadportal/internal/config"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

// BuildExportArchive returns the S3 export archive, or nil when
// EXPORT_ARCHIVE_BUCKET is unset or AWS is not configured.
func BuildExportArchive(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) *archive.Store {
	if cfg == nil || cfg.ExportArchiveBucket == "" || awsCfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
		// LocalStack serves buckets by path, not subdomain.
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	logger.Info("csv export archive enabled", "bucket", cfg.ExportArchiveBucket)
	return archive.NewStore(client, cfg.ExportArchiveBucket, logger)
}
