package bwcfnnaming_test

import (
	"testing"

	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
)

func TestNaming_DefaultAPI(t *testing.T) {
	t.Parallel()
	n := bwcfnnaming.New(bwcfnnaming.Input{
		ServiceName: "my-service",
		Stage:       "dev",
	})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "stage", got: n.StageLogicalID(), want: "ApiGatewayStage"},
		{name: "log group", got: n.LogGroupLogicalID(), want: "ApiGatewayLogGroup"},
		{name: "role", got: n.CloudWatchRoleLogicalID(), want: "CustomApiGatewayAccountCloudWatchRole"},
		{
			name: "role handler",
			got:  n.CloudWatchRoleHandlerLogicalID(),
			want: "CustomDashresourceDashapigwDashcwDashroleLambdaFunction",
		},
		{name: "log group name", got: n.LogGroupName(), want: "/aws/api-gateway/my-service-dev"},
		{name: "resolved stage", got: n.ResolvedStageName(), want: "dev"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNaming_StageOverride(t *testing.T) {
	t.Parallel()
	n := bwcfnnaming.New(bwcfnnaming.Input{
		ServiceName:   "my-service",
		Stage:         "dev",
		StageOverride: "foo",
	})

	if got := n.ResolvedStageName(); got != "foo" {
		t.Errorf("ResolvedStageName() = %q, want %q", got, "foo")
	}
	// The log group follows the deployment stage, not the API stage.
	if got := n.LogGroupName(); got != "/aws/api-gateway/my-service-dev" {
		t.Errorf("LogGroupName() = %q", got)
	}
}

func TestNaming_AdditionalAPI(t *testing.T) {
	t.Parallel()
	n := bwcfnnaming.New(bwcfnnaming.Input{
		ServiceName: "my-service",
		Stage:       "prod",
		APIName:     "admin_api",
	})

	if got := n.StageLogicalID(); got != "ApiGatewayAdminApiStage" {
		t.Errorf("StageLogicalID() = %q", got)
	}
	if got := n.LogGroupLogicalID(); got != "ApiGatewayAdminApiLogGroup" {
		t.Errorf("LogGroupLogicalID() = %q", got)
	}
	if got := n.LogGroupName(); got != "/aws/api-gateway/my-service-prod-admin-api" {
		t.Errorf("LogGroupName() = %q", got)
	}
	if got := n.CloudWatchRoleLogicalID(); got != "CustomApiGatewayAccountCloudWatchRole" {
		t.Errorf("CloudWatchRoleLogicalID() = %q, role id must not depend on the API", got)
	}
}

func TestLogicalID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "camel parts", parts: []string{"ApiGateway", "Stage"}, want: "ApiGatewayStage"},
		{name: "kebab part", parts: []string{"api-gateway", "stage"}, want: "ApiGatewayStage"},
		{name: "empty part", parts: []string{"ApiGateway", "", "LogGroup"}, want: "ApiGatewayLogGroup"},
		{name: "symbols dropped", parts: []string{"v1/public", "Stage"}, want: "V1publicStage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := bwcfnnaming.LogicalID(tt.parts...); got != tt.want {
				t.Errorf("LogicalID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeFunctionName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{in: "hello", want: "Hello"},
		{in: "hello-world", want: "HelloDashworld"},
		{in: "hello_world", want: "HelloUnderscoreworld"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := bwcfnnaming.NormalizeFunctionName(tt.in); got != tt.want {
			t.Errorf("NormalizeFunctionName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
