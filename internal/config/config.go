// Package config provides configuration management for rosterdesk.
// It loads configuration from an optional YAML file and environment
// variables with sensible defaults. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Verbosity represents the output verbosity level
type Verbosity string

const (
	// VerbosityNormal shows only essential output
	VerbosityNormal Verbosity = "normal"
	// VerbosityVerbose includes tool rounds and timing
	VerbosityVerbose Verbosity = "verbose"
	// VerbosityDebug provides full debug logging
	VerbosityDebug Verbosity = "debug"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// AgentConfig describes the remote agent
type AgentConfig struct {
	// ID selects an existing agent and skips the lookup by name
	ID string `yaml:"id"`

	// Name is used to find or create the agent
	Name string `yaml:"name"`

	// Model is the model of a newly created agent
	Model string `yaml:"model"`

	// Instructions overrides the built-in agent instructions
	Instructions string `yaml:"instructions"`

	// SyncTools pushes the current tool definitions to an existing agent at startup
	SyncTools bool `yaml:"syncTools"`
}

// OpenAIConfig holds the remote service connection settings
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`

	// BaseURL overrides the API endpoint; required for Azure
	BaseURL string `yaml:"baseURL"`

	// Azure switches to Azure OpenAI authentication and routing
	Azure bool `yaml:"azure"`

	// APIVersion is the Azure API version
	APIVersion string `yaml:"apiVersion"`

	// BreakerThreshold is the number of consecutive failures that opens the circuit
	BreakerThreshold int `yaml:"breakerThreshold"`

	// BreakerRecovery is how long the circuit stays open before a probe
	BreakerRecovery time.Duration `yaml:"breakerRecovery"`
}

// RunConfig tunes the agent run loop
type RunConfig struct {
	PollInterval     time.Duration `yaml:"pollInterval"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxToolRounds    int           `yaml:"maxToolRounds"`
	MaxParallelTools int           `yaml:"maxParallelTools"`
}

// StoreConfig selects the scheduling repository
type StoreConfig struct {
	// Driver is "memory" or "postgres"
	Driver string `yaml:"driver"`

	// DatabaseURL is the Postgres connection string
	DatabaseURL string `yaml:"databaseURL"`

	// MaxConns bounds the Postgres connection pool
	MaxConns int `yaml:"maxConns"`

	// SeedFile is a YAML roster loaded by the memory store instead of the demo roster
	SeedFile string `yaml:"seedFile"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port int `yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// SchedulingConfig holds roster rules
type SchedulingConfig struct {
	// MinRestHours is the shortest acceptable gap between two shifts of one person
	MinRestHours int `yaml:"minRestHours"`

	// ApproverRoles may approve or reject leave requests
	ApproverRoles []string `yaml:"approverRoles"`

	// MaxSearchDays caps the availability search range
	MaxSearchDays int `yaml:"maxSearchDays"`
}

// LogConfig holds logger overrides; empty values keep the logger's environment settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds all configuration for rosterdesk
type Config struct {
	// Verbosity controls CLI output level
	Verbosity Verbosity `yaml:"verbosity"`

	Agent      AgentConfig      `yaml:"agent"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Run        RunConfig        `yaml:"run"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Log        LogConfig        `yaml:"log"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Verbosity: VerbosityNormal,
		Agent: AgentConfig{
			Name:  "Roster Assistant",
			Model: "gpt-4o",
		},
		OpenAI: OpenAIConfig{
			BreakerThreshold: 5,
			BreakerRecovery:  30 * time.Second,
		},
		Run: RunConfig{
			PollInterval:     500 * time.Millisecond,
			Timeout:          90 * time.Second,
			MaxToolRounds:    12,
			MaxParallelTools: 4,
		},
		Store: StoreConfig{
			Driver:   StoreMemory,
			MaxConns: 10,
		},
		Server: ServerConfig{
			Port:            3001,
			ShutdownTimeout: 10 * time.Second,
		},
		Scheduling: SchedulingConfig{
			MinRestHours:  11,
			ApproverRoles: []string{"admin", "scheduler", "manager"},
			MaxSearchDays: 62,
		},
	}
}

// New creates a new Config from ROSTERDESK_CONFIG (if set) and the environment
func New() (*Config, error) {
	return Load(os.Getenv("ROSTERDESK_CONFIG"))
}

// Load creates a new Config from the YAML file at path (optional) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	// Load Verbosity
	if verbosity := os.Getenv("ROSTERDESK_VERBOSITY"); verbosity != "" {
		c.Verbosity = Verbosity(verbosity)
	}

	// Load Agent configuration
	c.Agent.ID = stringEnv("ROSTERDESK_AGENT_ID", c.Agent.ID)
	c.Agent.Name = stringEnv("ROSTERDESK_AGENT_NAME", c.Agent.Name)
	c.Agent.Model = stringEnv("ROSTERDESK_AGENT_MODEL", c.Agent.Model)
	if path := os.Getenv("ROSTERDESK_AGENT_INSTRUCTIONS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read ROSTERDESK_AGENT_INSTRUCTIONS_FILE: %w", err)
		}
		c.Agent.Instructions = string(data)
	}
	if c.Agent.SyncTools, err = parseBoolEnv("ROSTERDESK_AGENT_SYNC_TOOLS", c.Agent.SyncTools); err != nil {
		return err
	}

	// Load OpenAI configuration; the conventional OPENAI_API_KEY is accepted as a fallback
	c.OpenAI.APIKey = stringEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.APIKey = stringEnv("ROSTERDESK_OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = stringEnv("ROSTERDESK_OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.APIVersion = stringEnv("ROSTERDESK_OPENAI_API_VERSION", c.OpenAI.APIVersion)
	if c.OpenAI.Azure, err = parseBoolEnv("ROSTERDESK_OPENAI_AZURE", c.OpenAI.Azure); err != nil {
		return err
	}
	if c.OpenAI.BreakerThreshold, err = parsePositiveIntEnv("ROSTERDESK_BREAKER_THRESHOLD", c.OpenAI.BreakerThreshold); err != nil {
		return err
	}
	if c.OpenAI.BreakerRecovery, err = parseDurationEnv("ROSTERDESK_BREAKER_RECOVERY", c.OpenAI.BreakerRecovery); err != nil {
		return err
	}

	// Load Run configuration
	if c.Run.PollInterval, err = parseDurationEnv("ROSTERDESK_POLL_INTERVAL", c.Run.PollInterval); err != nil {
		return err
	}
	if c.Run.Timeout, err = parseDurationEnv("ROSTERDESK_RUN_TIMEOUT", c.Run.Timeout); err != nil {
		return err
	}
	if c.Run.MaxToolRounds, err = parsePositiveIntEnv("ROSTERDESK_MAX_TOOL_ROUNDS", c.Run.MaxToolRounds); err != nil {
		return err
	}
	if c.Run.MaxParallelTools, err = parsePositiveIntEnv("ROSTERDESK_MAX_PARALLEL_TOOLS", c.Run.MaxParallelTools); err != nil {
		return err
	}

	// Load Store configuration
	c.Store.Driver = strings.ToLower(stringEnv("ROSTERDESK_STORE", c.Store.Driver))
	c.Store.DatabaseURL = stringEnv("ROSTERDESK_DATABASE_URL", c.Store.DatabaseURL)
	c.Store.SeedFile = stringEnv("ROSTERDESK_SEED_FILE", c.Store.SeedFile)
	if c.Store.MaxConns, err = parsePositiveIntEnv("ROSTERDESK_DB_MAX_CONNS", c.Store.MaxConns); err != nil {
		return err
	}

	// Load Server configuration
	if portStr := os.Getenv("ROSTERDESK_HTTP_PORT"); portStr != "" {
		port, err := parsePort(portStr)
		if err != nil {
			return fmt.Errorf("ROSTERDESK_HTTP_PORT %s", err)
		}
		c.Server.Port = port
	}
	if c.Server.ShutdownTimeout, err = parseDurationEnv("ROSTERDESK_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	// Load Scheduling configuration
	if c.Scheduling.MinRestHours, err = parsePositiveIntEnv("ROSTERDESK_MIN_REST_HOURS", c.Scheduling.MinRestHours); err != nil {
		return err
	}
	if c.Scheduling.MaxSearchDays, err = parsePositiveIntEnv("ROSTERDESK_MAX_SEARCH_DAYS", c.Scheduling.MaxSearchDays); err != nil {
		return err
	}
	if roles := os.Getenv("ROSTERDESK_APPROVER_ROLES"); roles != "" {
		c.Scheduling.ApproverRoles = splitList(roles)
	}

	// Load Log overrides
	c.Log.Level = stringEnv("ROSTERDESK_LOG_LEVEL", c.Log.Level)
	c.Log.Format = stringEnv("ROSTERDESK_LOG_FORMAT", c.Log.Format)

	return nil
}

// Validate checks values that may have come from the file
func (c *Config) Validate() error {
	switch c.Verbosity {
	case VerbosityNormal, VerbosityVerbose, VerbosityDebug:
	default:
		return fmt.Errorf("verbosity must be one of: normal, verbose, debug; got: %s", c.Verbosity)
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("ROSTERDESK_DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("store driver must be memory or postgres, got: %s", c.Store.Driver)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Run.PollInterval <= 0 || c.Run.Timeout <= 0 {
		return fmt.Errorf("run poll interval and timeout must be positive")
	}
	if c.Run.PollInterval >= c.Run.Timeout {
		return fmt.Errorf("run poll interval %s must be shorter than the run timeout %s", c.Run.PollInterval, c.Run.Timeout)
	}
	if c.Run.MaxToolRounds <= 0 || c.Run.MaxParallelTools <= 0 {
		return fmt.Errorf("run tool limits must be positive")
	}
	if c.OpenAI.Azure && c.OpenAI.BaseURL == "" {
		return fmt.Errorf("ROSTERDESK_OPENAI_BASE_URL is required when ROSTERDESK_OPENAI_AZURE is true")
	}
	if c.Agent.ID == "" && c.Agent.Name == "" {
		return fmt.Errorf("either an agent id or an agent name is required")
	}
	if c.Scheduling.MinRestHours <= 0 || c.Scheduling.MaxSearchDays <= 0 {
		return fmt.Errorf("scheduling limits must be positive")
	}
	return nil
}

// RequireAPIKey reports a missing remote service key. Only commands that talk
// to the assistant need one.
func (c *Config) RequireAPIKey() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("an API key is required: set OPENAI_API_KEY or ROSTERDESK_OPENAI_API_KEY")
	}
	return nil
}

// MinRest returns the minimum rest between shifts as a duration
func (c *Config) MinRest() time.Duration {
	return time.Duration(c.Scheduling.MinRestHours) * time.Hour
}

// IsVerbose returns true if verbosity is verbose or debug
func (c *Config) IsVerbose() bool {
	return c.Verbosity == VerbosityVerbose || c.Verbosity == VerbosityDebug
}

// IsDebug returns true if verbosity is debug
func (c *Config) IsDebug() bool {
	return c.Verbosity == VerbosityDebug
}

func stringEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv parses a boolean environment variable with a default value
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be true or false, got: %s", key, value)
	}
}

// parsePositiveIntEnv parses a positive integer environment variable with a default value
func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got: %d", key, n)
	}
	return n, nil
}

// parseDurationEnv parses a duration such as "500ms" or "90s" with a default value.
// A bare integer is read as seconds.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		value = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got: %s", key, d)
	}
	return d, nil
}

// parsePort parses and validates a port number string
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("must be between 1 and 65535, got: %d", port)
	}
	return port, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
