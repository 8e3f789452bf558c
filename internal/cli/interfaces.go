package cli

import (
	"os"

	"github.com/Backland-Labs/rosterdesk/internal/assistant"
	"github.com/Backland-Labs/rosterdesk/internal/config"
	"github.com/Backland-Labs/rosterdesk/internal/output"
)

// ConfigLoader interface for dependency injection in tests
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
}

// ClientFactory builds the remote assistant client
type ClientFactory interface {
	NewClient(cfg *config.Config) (assistant.Client, error)
}

// Real implementations for production use

// RealConfigLoader implements ConfigLoader using the real config package
type RealConfigLoader struct{}

func (r *RealConfigLoader) Load(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("ROSTERDESK_CONFIG")
	}
	return config.Load(path)
}

// RealClientFactory connects to OpenAI or Azure OpenAI behind a circuit breaker
type RealClientFactory struct{}

func (r *RealClientFactory) NewClient(cfg *config.Config) (assistant.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	inner := assistant.NewOpenAIClient(assistant.OpenAIConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Azure:      cfg.OpenAI.Azure,
		APIVersion: cfg.OpenAI.APIVersion,
	})
	return assistant.NewBreaker(inner, cfg.OpenAI.BreakerThreshold, cfg.OpenAI.BreakerRecovery), nil
}

// Dependencies struct for injection
type Dependencies struct {
	ConfigLoader  ConfigLoader
	ClientFactory ClientFactory
	Printer       *output.Printer
}

// NewRealDependencies creates production dependencies
func NewRealDependencies() *Dependencies {
	return &Dependencies{
		ConfigLoader:  &RealConfigLoader{},
		ClientFactory: &RealClientFactory{},
		Printer:       output.NewPrinter(),
	}
}
