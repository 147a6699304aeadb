// Package aws wraps the S3 and Textract clients used to read uploaded
// documents and persist reports.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/younsl/archcost/internal/version"
)

// ConfigOptions are the load options shared by every client of this tool
func ConfigOptions() []func(*config.LoadOptions) error {
	return []func(*config.LoadOptions) error{
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
		config.WithAppID(version.AppID()),
	}
}

// LoadConfig loads the default AWS configuration for a region
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := append([]func(*config.LoadOptions) error{config.WithRegion(region)}, ConfigOptions()...)

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	return cfg, nil
}
