package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/bridgei2p/leadportal/internal/config"
)

func TestNeedsAWS(t *testing.T) {
	assert.False(t, NeedsAWS(&appconfig.Config{EmailProvider: "stub"}))
	assert.True(t, NeedsAWS(&appconfig.Config{EmailProvider: "ses"}))
	assert.True(t, NeedsAWS(&appconfig.Config{ExportArchiveBucket: "lead-exports"}))
}

func TestLoadAWSConfigEndpointOverride(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "ap-south-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "test",
		AWSEndpointOverride: "http://localstack:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", awsCfg.Region)

	for _, service := range []string{s3.ServiceID, sesv2.ServiceID} {
		endpoint, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint(service, "ap-south-1")
		require.NoError(t, err)
		assert.Equal(t, "http://localstack:4566", endpoint.URL)
	}
	_, err = awsCfg.EndpointResolverWithOptions.ResolveEndpoint("sqs", "ap-south-1")
	assert.Error(t, err)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
}

func TestLoadAWSConfigIgnoresPartialKeys(t *testing.T) {
	_, ok := staticCredentials(&appconfig.Config{AWSAccessKeyID: "test"})
	assert.False(t, ok)
	_, ok = staticCredentials(&appconfig.Config{AWSAccessKeyID: " test ", AWSSecretAccessKey: "secret"})
	assert.True(t, ok)
}
