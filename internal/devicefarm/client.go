// Package devicefarm wraps the AWS Device Farm SDK client with name
// resolution for the run waiter. Authentication follows the SDK's standard
// credential chain; only the region is set explicitly.
package devicefarm

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdf "github.com/aws/aws-sdk-go-v2/service/devicefarm"
)

// DefaultRegion is where Device Farm is hosted; the service is not available
// in other regions.
const DefaultRegion = "us-west-2"

// API is the subset of the Device Farm client consumed by this tool.
// *devicefarm.Client satisfies it; tests supply a fake.
type API interface {
	ListProjects(ctx context.Context, params *awsdf.ListProjectsInput, optFns ...func(*awsdf.Options)) (*awsdf.ListProjectsOutput, error)
	ListRuns(ctx context.Context, params *awsdf.ListRunsInput, optFns ...func(*awsdf.Options)) (*awsdf.ListRunsOutput, error)
	GetRun(ctx context.Context, params *awsdf.GetRunInput, optFns ...func(*awsdf.Options)) (*awsdf.GetRunOutput, error)
}

// NewClient builds a Device Farm client from the ambient AWS configuration
// (environment, shared config, instance role). An empty region falls back to
// DefaultRegion.
func NewClient(ctx context.Context, region string) (*awsdf.Client, error) {
	if region == "" {
		region = DefaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return awsdf.NewFromConfig(cfg), nil
}
