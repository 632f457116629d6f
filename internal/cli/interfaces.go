package cli

import (
	"context"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/config"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/devicefarm"
)

const defaultRegionHelp = devicefarm.DefaultRegion

// ConfigLoader interface for dependency injection in tests
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// ClientFactory interface for dependency injection in tests
type ClientFactory interface {
	NewClient(ctx context.Context, region string) (devicefarm.API, error)
}

// Real implementations for production use

// RealConfigLoader implements ConfigLoader using the real config package
type RealConfigLoader struct{}

func (r *RealConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

// RealClientFactory implements ClientFactory using the AWS SDK
type RealClientFactory struct{}

func (r *RealClientFactory) NewClient(ctx context.Context, region string) (devicefarm.API, error) {
	return devicefarm.NewClient(ctx, region)
}

// Dependencies struct for injection
type Dependencies struct {
	ConfigLoader  ConfigLoader
	ClientFactory ClientFactory
}

// NewRealDependencies creates production dependencies
func NewRealDependencies() *Dependencies {
	return &Dependencies{
		ConfigLoader:  &RealConfigLoader{},
		ClientFactory: &RealClientFactory{},
	}
}
