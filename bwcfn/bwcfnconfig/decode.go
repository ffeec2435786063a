package bwcfnconfig

import (
	"fmt"
	"strings"

	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfntags"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultStage is used when neither the options nor the service file name a
// stage.
const DefaultStage = "dev"

// Options adjusts decoding the way command line flags do.
type Options struct {
	// Stage overrides provider.stage. Optional.
	Stage string
}

type rawService struct {
	Service  yaml.Node   `yaml:"service"`
	Provider rawProvider `yaml:"provider"`
}

type rawProvider struct {
	Stage                   string           `yaml:"stage"`
	Tracing                 rawTracing       `yaml:"tracing"`
	StackTags               yaml.Node        `yaml:"stackTags"`
	Tags                    yaml.Node        `yaml:"tags"`
	Logs                    rawLogs          `yaml:"logs"`
	LogRetentionInDays      *int             `yaml:"logRetentionInDays"`
	LogDataProtectionPolicy yaml.Node        `yaml:"logDataProtectionPolicy"`
	APIGateway              rawAPIGatewayCfg `yaml:"apiGateway"`
}

type rawTracing struct {
	APIGateway bool `yaml:"apiGateway"`
}

type rawLogs struct {
	RestAPI yaml.Node `yaml:"restApi"`
}

type rawAPIGatewayCfg struct {
	Stage string `yaml:"stage"`
}

type rawRestAPILogs struct {
	AccessLogging         *bool  `yaml:"accessLogging"`
	ExecutionLogging      *bool  `yaml:"executionLogging"`
	RoleManagedExternally *bool  `yaml:"roleManagedExternally"`
	Role                  string `yaml:"role"`
}

// Parse decodes and validates a service file.
func Parse(data []byte, opts Options) (*ServiceConfig, error) {
	var raw rawService
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing service file"), ErrInvalidConfig)
	}

	var readErrs []string
	cfg := &ServiceConfig{
		TracingEnabled:     raw.Provider.Tracing.APIGateway,
		StageNameOverride:  raw.Provider.APIGateway.Stage,
		LogRetentionInDays: raw.Provider.LogRetentionInDays,
	}

	cfg.ServiceName, readErrs = decodeServiceName(&raw.Service, readErrs)
	cfg.StackTags, readErrs = decodeTags("provider.stackTags", &raw.Provider.StackTags, readErrs)
	cfg.Tags, readErrs = decodeTags("provider.tags", &raw.Provider.Tags, readErrs)
	cfg.Logs, readErrs = decodeLogs(&raw.Provider.Logs.RestAPI, readErrs)
	cfg.LogDataProtectionPolicy, readErrs = decodePolicy(&raw.Provider.LogDataProtectionPolicy, readErrs)

	switch {
	case opts.Stage != "":
		cfg.StageName = opts.Stage
	case raw.Provider.Stage != "":
		cfg.StageName = raw.Provider.Stage
	default:
		cfg.StageName = DefaultStage
	}

	if len(readErrs) > 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "read errors:\n  - %s", strings.Join(readErrs, "\n  - "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isAbsent(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func decodeServiceName(n *yaml.Node, errs []string) (string, []string) {
	n = resolveAlias(n)
	switch {
	case isAbsent(n):
		return "", append(errs, "service is not set")
	case n.Kind == yaml.ScalarNode:
		return n.Value, errs
	case n.Kind == yaml.MappingNode:
		var svc struct {
			Name string `yaml:"name"`
		}
		if err := n.Decode(&svc); err != nil {
			return "", append(errs, fmt.Sprintf("service: %v", err))
		}
		if svc.Name == "" {
			return "", append(errs, "service.name is not set")
		}
		return svc.Name, errs
	default:
		return "", append(errs, "service must be a string or a mapping")
	}
}

// decodeTags reads a tag mapping in configured order. Values must be YAML
// strings; unquoted numbers, booleans and timestamps are rejected so they are
// never coerced behind the user's back.
func decodeTags(field string, n *yaml.Node, errs []string) (bwcfntags.List, []string) {
	n = resolveAlias(n)
	if isAbsent(n) {
		return nil, errs
	}
	if n.Kind != yaml.MappingNode {
		return nil, append(errs, fmt.Sprintf("%s must be a mapping (line %d)", field, n.Line))
	}

	tags := make(bwcfntags.List, 0, len(n.Content)/2)
	for i := 0; i < len(n.Content)-1; i += 2 {
		key := n.Content[i]
		val := resolveAlias(n.Content[i+1])
		if val.Kind != yaml.ScalarNode {
			errs = append(errs, fmt.Sprintf("%s.%s must be a string (line %d)", field, key.Value, val.Line))
			continue
		}
		if val.ShortTag() != "!!str" {
			errs = append(errs, fmt.Sprintf("%s.%s must be a string, got %s (line %d)",
				field, key.Value, val.ShortTag(), val.Line))
			continue
		}
		tags = append(tags, bwcfntags.Entry{Key: key.Value, Value: val.Value})
	}
	return tags, errs
}

func decodeLogs(n *yaml.Node, errs []string) (LogsSetting, []string) {
	n = resolveAlias(n)
	switch {
	case isAbsent(n):
		return LogsSetting{Kind: LogsDisabled}, errs
	case n.Kind == yaml.ScalarNode && n.Tag == "!!bool":
		var enabled bool
		if err := n.Decode(&enabled); err != nil {
			return LogsSetting{}, append(errs, fmt.Sprintf("provider.logs.restApi: %v", err))
		}
		if enabled {
			return LogsSetting{Kind: LogsEnabled}, errs
		}
		return LogsSetting{Kind: LogsDisabled}, errs
	case n.Kind == yaml.MappingNode:
		var raw rawRestAPILogs
		if err := n.Decode(&raw); err != nil {
			return LogsSetting{}, append(errs, fmt.Sprintf("provider.logs.restApi: %v", err))
		}
		return LogsSetting{
			Kind:                  LogsConfigured,
			AccessLogging:         raw.AccessLogging,
			ExecutionLogging:      raw.ExecutionLogging,
			RoleManagedExternally: raw.RoleManagedExternally,
			Role:                  raw.Role,
		}, errs
	default:
		return LogsSetting{}, append(errs, fmt.Sprintf(
			"provider.logs.restApi must be a boolean or a mapping (line %d)", n.Line))
	}
}

func decodePolicy(n *yaml.Node, errs []string) (*bwcfndoc.Map, []string) {
	n = resolveAlias(n)
	if isAbsent(n) {
		return nil, errs
	}
	if n.Kind != yaml.MappingNode {
		return nil, append(errs, fmt.Sprintf("provider.logDataProtectionPolicy must be a mapping (line %d)", n.Line))
	}
	val, err := bwcfndoc.DecodeNode(n)
	if err != nil {
		return nil, append(errs, fmt.Sprintf("provider.logDataProtectionPolicy: %v", err))
	}
	policy, ok := val.(*bwcfndoc.Map)
	if !ok {
		return nil, append(errs, "provider.logDataProtectionPolicy must be a mapping")
	}
	return policy, errs
}
