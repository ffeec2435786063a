// Package bwcdkstage materializes a compiled API Gateway stage document into a
// CDK stack.
//
// Every typed resource of the document becomes an L1 CfnResource that keeps
// its logical id, so references such as {"Ref": "ApiGatewayRestApi"} keep
// resolving after synthesis. The access log group name is exported as a stack
// output, enabling easy discovery via AWS CLI queries.
package bwcdkstage

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
)

// Stage provides access to the resources created from a compiled document.
type Stage interface {
	// Resource returns the CfnResource for a logical id, or nil.
	Resource(logicalID string) awscdk.CfnResource
	// LogGroupOutput returns the output exporting the access log group name,
	// or nil when the document has no access log group.
	LogGroupOutput() awscdk.CfnOutput
}

// Props configures the Stage construct.
type Props struct {
	// Document is the compiled template.
	// Required.
	Document *bwcfndoc.Document
	// Names is the naming provider the document was compiled with.
	// Required.
	Names bwcfnnaming.Provider
}

type stage struct {
	resources map[string]awscdk.CfnResource
	output    awscdk.CfnOutput
}

// New creates a Stage construct.
//
// Resources without a Type are skipped. A CfnOutput is created when the
// document holds the access log group:
//   - Key: "{logGroupLogicalId}Name"
//   - Value: the log group name (for CLI queries)
//   - Description: "CloudWatch Log Group for API Gateway access logs"
func New(scope constructs.Construct, id string, props Props) Stage {
	scope = constructs.NewConstruct(scope, jsii.String(id))
	con := &stage{resources: map[string]awscdk.CfnResource{}}

	for logicalID, res := range props.Document.Resources.All() {
		if res.Type == "" {
			continue
		}
		con.resources[logicalID] = newCfnResource(scope, logicalID, res)
	}

	logGroupID := props.Names.LogGroupLogicalID()
	if _, ok := con.resources[logGroupID]; ok {
		con.output = awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
			Key:         jsii.String(logGroupID + "Name"),
			Description: jsii.String("CloudWatch Log Group for API Gateway access logs"),
			Value:       awscdk.Fn_Ref(jsii.String(logGroupID)),
		})
	}

	return con
}

func newCfnResource(scope constructs.Construct, logicalID string, res *bwcfndoc.Resource) awscdk.CfnResource {
	props := &awscdk.CfnResourceProps{Type: jsii.String(res.Type)}
	if res.Properties != nil {
		plain, _ := toPlain(res.Properties).(map[string]any)
		props.Properties = &plain
	}

	cfn := awscdk.NewCfnResource(scope, jsii.String(logicalID), props)
	cfn.OverrideLogicalId(jsii.String(logicalID))

	if res.Condition != "" {
		cfn.AddOverride(jsii.String("Condition"), res.Condition)
	}
	if len(res.DependsOn) > 0 {
		deps := make([]any, 0, len(res.DependsOn))
		for _, d := range res.DependsOn {
			deps = append(deps, d)
		}
		cfn.AddOverride(jsii.String("DependsOn"), deps)
	}
	for k, v := range res.Attributes.All() {
		cfn.AddOverride(jsii.String(k), toPlain(v))
	}
	return cfn
}

// toPlain converts ordered template values into the maps and slices jsii can
// pass to the CDK.
func toPlain(v any) any {
	switch t := v.(type) {
	case *bwcfndoc.Map:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for k, val := range t.All() {
			m[k] = toPlain(val)
		}
		return m
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			out = append(out, toPlain(val))
		}
		return out
	default:
		return v
	}
}

func (s *stage) Resource(logicalID string) awscdk.CfnResource {
	return s.resources[logicalID]
}

func (s *stage) LogGroupOutput() awscdk.CfnOutput {
	return s.output
}
