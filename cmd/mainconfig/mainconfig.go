// Package mainconfig holds start-up wiring shared by cmd/api and
// cmd/export-leads.
package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/bridgei2p/leadportal/internal/config"
)

// localServices are the AWS APIs the lead portal calls: SES for sales alerts
// and S3 for the export archive. Only these follow AWS_ENDPOINT_OVERRIDE.
var localServices = map[string]bool{
	sesv2.ServiceID: true,
	s3.ServiceID:    true,
}

// NeedsAWS reports whether alerts go out through SES or exports are archived
// to S3. Without either, no AWS config is loaded at all.
func NeedsAWS(cfg *appconfig.Config) bool {
	return cfg.EmailProvider == "ses" || strings.TrimSpace(cfg.ExportArchiveBucket) != ""
}

// LoadAWSConfig builds the SDK config for the SES sender and the S3 archive.
// Static keys win over the default chain when both are set. An endpoint
// override points SES and S3 at LocalStack.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if provider, ok := staticCredentials(cfg); ok {
		loaders = append(loaders, config.WithCredentialsProvider(provider))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		awsCfg.EndpointResolverWithOptions = localEndpoint(endpoint, cfg.AWSRegion)
	}
	return awsCfg, nil
}

func staticCredentials(cfg *appconfig.Config) (aws.CredentialsProvider, bool) {
	key, secret := strings.TrimSpace(cfg.AWSAccessKeyID), strings.TrimSpace(cfg.AWSSecretAccessKey)
	if key == "" || secret == "" {
		return nil, false
	}
	return credentials.NewStaticCredentialsProvider(key, secret, ""), true
}

func localEndpoint(url, region string) aws.EndpointResolverWithOptions {
	return aws.EndpointResolverWithOptionsFunc(func(service, _ string, _ ...interface{}) (aws.Endpoint, error) {
		if !localServices[service] {
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
		return aws.Endpoint{URL: url, PartitionID: "aws", SigningRegion: region}, nil
	})
}
