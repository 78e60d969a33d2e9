package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/michaelmohamed/pm5/pkg/errors"

	"gopkg.in/yaml.v3"
)

// EcosystemConfig represents the top-level ecosystem file structure.
type EcosystemConfig struct {
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig describes one service to supervise. Field names follow
// the ecosystem file format; YAML is a superset of JSON, so plain JSON
// ecosystem files load unchanged.
type ServiceConfig struct {
	Name             string   `yaml:"name"`
	Interpreter      string   `yaml:"interpreter"`
	InterpreterArgs  []string `yaml:"interpreter_args,omitempty"`
	Script           string   `yaml:"script,omitempty"`
	Args             []string `yaml:"args,omitempty"`
	Env              EnvMap   `yaml:"env,omitempty"`
	WorkingDirectory string   `yaml:"cwd,omitempty"`
	Instances        *int     `yaml:"instances,omitempty"` // Pointer to distinguish unset from zero
	Disabled         bool     `yaml:"disabled,omitempty"`
	WaitReady        bool     `yaml:"wait_ready,omitempty"`
	AutoRestart      bool     `yaml:"autorestart,omitempty"`
	MaxRestarts      int      `yaml:"max_restarts,omitempty"`
}

// EnvMap holds service environment overrides. Scalar values of any
// YAML type are coerced to text.
type EnvMap map[string]string

func (m *EnvMap) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	out := make(EnvMap, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	*m = out

	return nil
}

// EnvironStrings renders the overrides as KEY=VALUE pairs in key order,
// ready to append to an inherited environment.
func (m EnvMap) EnvironStrings() []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	environ := make([]string, 0, len(keys))
	for _, k := range keys {
		environ = append(environ, k+"="+m[k])
	}

	return environ
}

// Command builds the full argument vector for one instance:
// interpreter + interpreter args + script (if present) + service args.
func (s *ServiceConfig) Command() []string {
	command := make([]string, 0, 2+len(s.InterpreterArgs)+len(s.Args))
	command = append(command, s.Interpreter)
	command = append(command, s.InterpreterArgs...)
	if s.Script != "" {
		command = append(command, s.Script)
	}
	command = append(command, s.Args...)

	return command
}

// ResolveInstances returns the number of instances to launch. A negative
// count means "total logical CPUs minus |n|", floored at 1. An unset
// count defaults to 1; an explicit zero means zero instances.
func (s *ServiceConfig) ResolveInstances(totalCPUs int) int {
	if s.Instances == nil {
		return 1
	}

	n := *s.Instances
	if n < 0 {
		n = totalCPUs + n
		if n < 1 {
			n = 1
		}
	}

	return n
}

// LoadConfigFromFile loads an ecosystem configuration from a YAML or
// JSON file.
func LoadConfigFromFile(filename string) (*EcosystemConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read ecosystem file", err).WithContext("filename", filename)
	}

	var config EcosystemConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse ecosystem file", err).WithContext("filename", filename)
	}

	setConfigDefaults(&config)

	return &config, nil
}

// setConfigDefaults applies default values to configuration
func setConfigDefaults(config *EcosystemConfig) {
	for i := range config.Services {
		service := &config.Services[i]

		// Default instances to 1 if not specified
		if service.Instances == nil {
			one := 1
			service.Instances = &one
		}
	}
}

// ValidateConfig validates the entire configuration structure. Duplicate
// service names are permitted; each produces independent instances.
func ValidateConfig(config *EcosystemConfig) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}

	for i := range config.Services {
		service := &config.Services[i]

		if service.Name == "" {
			return errors.NewValidationError(
				fmt.Sprintf("service at index %d has no name", i),
				nil,
			)
		}

		if service.Interpreter == "" {
			return errors.NewValidationError(
				fmt.Sprintf("service '%s' has no interpreter", service.Name),
				nil,
			).WithContext("service_index", i)
		}

		if service.MaxRestarts < 0 {
			return errors.NewValidationError(
				fmt.Sprintf("service '%s' has a negative max_restarts", service.Name),
				nil,
			).WithContext("max_restarts", service.MaxRestarts)
		}
	}

	return nil
}

// ConfigSummary captures headline numbers for startup logging.
type ConfigSummary struct {
	TotalServices   int
	EnabledServices int
	Services        []ServiceSummary
}

// ServiceSummary is the per-service slice of a ConfigSummary.
type ServiceSummary struct {
	Name        string
	Disabled    bool
	Instances   int
	WaitReady   bool
	AutoRestart bool
	MaxRestarts int
}

// GetConfigSummary summarizes a configuration. Instance counts are the
// raw configured values, not resolved against the CPU count.
func GetConfigSummary(config *EcosystemConfig) ConfigSummary {
	summary := ConfigSummary{
		TotalServices: len(config.Services),
	}

	for i := range config.Services {
		service := &config.Services[i]

		instances := 1
		if service.Instances != nil {
			instances = *service.Instances
		}

		if !service.Disabled {
			summary.EnabledServices++
		}

		summary.Services = append(summary.Services, ServiceSummary{
			Name:        service.Name,
			Disabled:    service.Disabled,
			Instances:   instances,
			WaitReady:   service.WaitReady,
			AutoRestart: service.AutoRestart,
			MaxRestarts: service.MaxRestarts,
		})
	}

	return summary
}
