// Package bwcfnconfig reads the parts of a service file that shape the API
// Gateway stage: tracing, tags, REST API logs, log retention and the stage
// name override.
//
// Loosely typed settings are normalized once here, so the compiler never has
// to look at raw YAML. In particular provider.logs.restApi, which may be a
// boolean or a mapping, becomes a [LogsSetting].
package bwcfnconfig

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/basewarphq/bwstage/bwcfn/bwcfntags"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig marks every configuration error returned by this package.
var ErrInvalidConfig = errors.New("invalid service configuration")

// LogsKind tells how REST API logging was configured.
type LogsKind int

const (
	// LogsDisabled means restApi is absent or false.
	LogsDisabled LogsKind = iota
	// LogsEnabled means restApi is true: every default applies.
	LogsEnabled
	// LogsConfigured means restApi is a mapping; unset fields use defaults.
	LogsConfigured
)

func (k LogsKind) String() string {
	switch k {
	case LogsDisabled:
		return "disabled"
	case LogsEnabled:
		return "enabled"
	case LogsConfigured:
		return "configured"
	default:
		return fmt.Sprintf("LogsKind(%d)", int(k))
	}
}

// LogsSetting is the normalized provider.logs.restApi value.
type LogsSetting struct {
	Kind LogsKind
	// AccessLogging defaults to true.
	AccessLogging *bool
	// ExecutionLogging defaults to true.
	ExecutionLogging *bool
	// RoleManagedExternally defaults to false.
	RoleManagedExternally *bool
	// Role is an existing IAM role ARN to register as the account's
	// CloudWatch role. Optional.
	Role string `validate:"omitempty,startswith=arn:"`
}

// Active reports whether REST API logging is configured at all.
func (s LogsSetting) Active() bool {
	return s.Kind != LogsDisabled
}

// AccessLoggingEnabled reports whether access logs (and their log group) are
// wanted. Only an explicit accessLogging: false turns them off.
func (s LogsSetting) AccessLoggingEnabled() bool {
	return s.Active() && (s.AccessLogging == nil || aws.ToBool(s.AccessLogging))
}

// ExecutionLoggingEnabled reports whether method level execution logging is
// wanted. Only an explicit executionLogging: false turns it off.
func (s LogsSetting) ExecutionLoggingEnabled() bool {
	return s.Active() && (s.ExecutionLogging == nil || aws.ToBool(s.ExecutionLogging))
}

// RoleIsManagedExternally reports whether the account CloudWatch role is set
// up outside of this service.
func (s LogsSetting) RoleIsManagedExternally() bool {
	return aws.ToBool(s.RoleManagedExternally)
}

// ServiceConfig is the validated input of the stage compiler.
type ServiceConfig struct {
	ServiceName string `validate:"required"`
	// StageName is the deployment stage.
	StageName string `validate:"required"`
	// StageNameOverride is provider.apiGateway.stage. Optional.
	StageNameOverride string

	TracingEnabled bool
	// StackTags and Tags keep the order in which they were configured.
	StackTags bwcfntags.List
	Tags      bwcfntags.List

	Logs                    LogsSetting
	LogRetentionInDays      *int `validate:"omitempty,oneof=1 3 5 7 14 30 60 90 120 150 180 365 400 545 731 1096 1827 2192 2557 2922 3288 3653"`
	LogDataProtectionPolicy *bwcfndoc.Map
}

// NamingInput returns the naming input for this service. apiName is empty
// for the default REST API.
func (c *ServiceConfig) NamingInput(apiName string) bwcfnnaming.Input {
	return bwcfnnaming.Input{
		ServiceName:   c.ServiceName,
		Stage:         c.StageName,
		StageOverride: c.StageNameOverride,
		APIName:       apiName,
	}
}

// Validate checks the struct tags and reports every failure at once.
func (c *ServiceConfig) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, formatValidationError(e))
			}
			return errors.Wrapf(ErrInvalidConfig, "validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
		}
		return errors.Wrapf(ErrInvalidConfig, "validation failed: %v", err)
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", e.Namespace(), e.Param(), e.Value())
	case "startswith":
		return fmt.Sprintf("%s must start with %q (got %q)", e.Namespace(), e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed validation %q", e.Namespace(), e.Tag())
	}
}
