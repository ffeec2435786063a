// Package bwcfnnaming derives the logical ids and physical names used by the
// stage compiler.
//
// All names are a pure function of the [Input], so compiling the same service
// twice yields the same ids.
package bwcfnnaming

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Provider names the resources written by the stage compiler.
type Provider interface {
	// StageLogicalID returns the logical id of the dedicated stage resource.
	StageLogicalID() string
	// LogGroupLogicalID returns the logical id of the access log group.
	LogGroupLogicalID() string
	// CloudWatchRoleLogicalID returns the logical id of the custom resource
	// that sets the account-wide API Gateway CloudWatch role.
	CloudWatchRoleLogicalID() string
	// CloudWatchRoleHandlerLogicalID returns the logical id of the Lambda
	// function backing that custom resource.
	CloudWatchRoleHandlerLogicalID() string
	// LogGroupName returns the access log group name.
	LogGroupName() string
	// ResolvedStageName returns the stage override when set, else the stage.
	ResolvedStageName() string
}

// Input holds everything the names are derived from.
type Input struct {
	// ServiceName is the service being packaged (e.g., "my-service").
	ServiceName string
	// Stage is the deployment stage (e.g., "dev").
	Stage string
	// StageOverride is the API Gateway stage name configured on the provider.
	// Optional; takes precedence over Stage for the API stage.
	StageOverride string
	// APIName distinguishes additional REST APIs in the same service.
	// Optional; empty for the default API.
	APIName string
}

const (
	cloudWatchRoleLogicalID = "CustomApiGatewayAccountCloudWatchRole"
	cloudWatchRoleHandler   = "custom-resource-apigw-cw-role"
	logGroupPrefix          = "/aws/api-gateway/"
)

// Naming is the default Provider.
type Naming struct {
	in Input
}

var _ Provider = (*Naming)(nil)

// New creates a Naming for the given input.
func New(in Input) *Naming {
	return &Naming{in: in}
}

// StageLogicalID returns the logical id of the AWS::ApiGateway::Stage resource.
func (n *Naming) StageLogicalID() string {
	return LogicalID("ApiGateway", n.in.APIName, "Stage")
}

// LogGroupLogicalID returns the logical id of the access log group.
func (n *Naming) LogGroupLogicalID() string {
	return LogicalID("ApiGateway", n.in.APIName, "LogGroup")
}

// CloudWatchRoleLogicalID is shared by every API in the account, so it never
// carries the API name.
func (n *Naming) CloudWatchRoleLogicalID() string {
	return cloudWatchRoleLogicalID
}

// CloudWatchRoleHandlerLogicalID returns the logical id of the Lambda function
// that backs the CloudWatch role custom resource.
func (n *Naming) CloudWatchRoleHandlerLogicalID() string {
	return NormalizeFunctionName(cloudWatchRoleHandler) + "LambdaFunction"
}

// LogGroupName returns "/aws/api-gateway/{service}-{stage}", with the API
// name appended in kebab case for additional APIs.
func (n *Naming) LogGroupName() string {
	name := logGroupPrefix + n.in.ServiceName + "-" + n.in.Stage
	if n.in.APIName != "" {
		name += "-" + strcase.ToKebab(n.in.APIName)
	}
	return name
}

// ResolvedStageName returns the stage override when set and the deployment
// stage otherwise.
func (n *Naming) ResolvedStageName() string {
	if n.in.StageOverride != "" {
		return n.in.StageOverride
	}
	return n.in.Stage
}

// LogicalID joins the parts in CamelCase and drops every character that is
// not allowed in a CloudFormation logical id.
func LogicalID(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		for _, r := range strcase.ToCamel(part) {
			if isAlphaNum(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// NormalizeFunctionName spells out dashes and underscores so a function name
// can be used inside a logical id (e.g., "my-fn" becomes "MyDashfn").
func NormalizeFunctionName(name string) string {
	replaced := strings.NewReplacer("-", "Dash", "_", "Underscore").Replace(name)
	if replaced == "" {
		return ""
	}
	return strings.ToUpper(replaced[:1]) + replaced[1:]
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
