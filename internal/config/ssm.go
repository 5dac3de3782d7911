package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMClient is the slice of the SSM API the config loader uses.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the Lambda execution role creds.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets fills CompletionAPIKey from SSM Parameter Store when the
// parameter name is configured and no key was supplied directly. Failures
// leave the key empty so the handler degrades to its soft-failure shape.
func (c *Config) ResolveSecrets(ctx context.Context, client SSMClient) error {
	if c.CompletionAPIKey != "" || c.CompletionKeySSMParam == "" {
		return nil
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(c.CompletionKeySSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("ssm GetParameter %s: %w", c.CompletionKeySSMParam, err)
	}
	if out.Parameter != nil {
		c.CompletionAPIKey = aws.ToString(out.Parameter.Value)
	}
	return nil
}
