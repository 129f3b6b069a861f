// internal/common/aws/clients.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// LoadConfig resolves AWS credentials and region once so SES and SNS share
// the same session.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}

// NewSES returns the raw SES client. Handlers depend on their own narrow
// send interfaces, which the raw client satisfies.
func NewSES(cfg aws.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

func NewSNS(cfg aws.Config) *sns.Client {
	return sns.NewFromConfig(cfg)
}
