//nolint:paralleltest // jsii runtime doesn't support parallel tests
package bwcdkstage_test

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/bwstage/bwcdk/bwcdkstage"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnstage"
)

const testTemplate = `Resources:
  ApiGatewayRestApi:
    Type: AWS::ApiGateway::RestApi
    Properties:
      Name: dev-my-service
  ApiGatewayDeployment1:
    Type: AWS::ApiGateway::Deployment
    Properties:
      RestApiId: !Ref ApiGatewayRestApi
      StageName: dev
`

func compiledDocument(t *testing.T, logs bwcfnconfig.LogsSetting) (*bwcfndoc.Document, bwcfnnaming.Provider) {
	t.Helper()
	doc, err := bwcfndoc.Parse([]byte(testTemplate))
	if err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}

	cfg := &bwcfnconfig.ServiceConfig{
		ServiceName:    "my-service",
		StageName:      "dev",
		TracingEnabled: true,
		Logs:           logs,
	}
	names := bwcfnnaming.New(cfg.NamingInput(""))
	if err := bwcfnstage.New(names, nil).Compile(doc, cfg, bwcfnstage.API{
		DeploymentLogicalID: "ApiGatewayDeployment1",
	}); err != nil {
		t.Fatalf("failed to compile: %v", err)
	}
	return doc, names
}

func synthTemplate(t *testing.T, app awscdk.App) map[string]any {
	t.Helper()
	template := app.Synth(nil).GetStackByName(jsii.String("TestStack")).Template()

	templateJSON, err := json.Marshal(template)
	if err != nil {
		t.Fatalf("failed to marshal template: %v", err)
	}

	var tmpl map[string]any
	if err := json.Unmarshal(templateJSON, &tmpl); err != nil {
		t.Fatalf("failed to unmarshal template: %v", err)
	}
	return tmpl
}

func TestNew_KeepsLogicalIDs(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	doc, names := compiledDocument(t, bwcfnconfig.LogsSetting{Kind: bwcfnconfig.LogsEnabled})
	st := bwcdkstage.New(stack, "Stage", bwcdkstage.Props{Document: doc, Names: names})

	if st.Resource("ApiGatewayStage") == nil {
		t.Error("Resource(ApiGatewayStage) should not be nil")
	}
	if st.LogGroupOutput() == nil {
		t.Error("LogGroupOutput() should not be nil with access logging")
	}

	tmpl := synthTemplate(t, app)
	resources, ok := tmpl["Resources"].(map[string]any)
	if !ok {
		t.Fatal("template should have Resources")
	}

	for _, id := range []string{
		"ApiGatewayRestApi",
		"ApiGatewayDeployment1",
		"ApiGatewayStage",
		"ApiGatewayLogGroup",
		"CustomApiGatewayAccountCloudWatchRole",
	} {
		if _, ok := resources[id]; !ok {
			t.Errorf("resource %q missing from synthesized template", id)
		}
	}

	stageRes, _ := resources["ApiGatewayStage"].(map[string]any)
	deps, _ := stageRes["DependsOn"].([]any)
	if len(deps) != 1 || deps[0] != "CustomApiGatewayAccountCloudWatchRole" {
		t.Errorf("stage DependsOn = %v", stageRes["DependsOn"])
	}

	role, _ := resources["CustomApiGatewayAccountCloudWatchRole"].(map[string]any)
	if role["Version"] != "1.0" {
		t.Errorf("role Version = %v, want 1.0", role["Version"])
	}
}

func TestNew_CreatesLogGroupOutput(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	doc, names := compiledDocument(t, bwcfnconfig.LogsSetting{Kind: bwcfnconfig.LogsEnabled})
	bwcdkstage.New(stack, "Stage", bwcdkstage.Props{Document: doc, Names: names})

	outputs, ok := synthTemplate(t, app)["Outputs"].(map[string]any)
	if !ok {
		t.Fatal("template should have Outputs")
	}
	output, ok := outputs["ApiGatewayLogGroupName"].(map[string]any)
	if !ok {
		t.Fatalf("template should have ApiGatewayLogGroupName output, got outputs: %v", outputs)
	}

	desc, ok := output["Description"].(string)
	if !ok || desc != "CloudWatch Log Group for API Gateway access logs" {
		t.Errorf("Description = %q, want %q", desc, "CloudWatch Log Group for API Gateway access logs")
	}
}

func TestNew_NoOutputWithoutAccessLogs(t *testing.T) {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), nil)

	doc, names := compiledDocument(t, bwcfnconfig.LogsSetting{Kind: bwcfnconfig.LogsDisabled})
	st := bwcdkstage.New(stack, "Stage", bwcdkstage.Props{Document: doc, Names: names})

	if st.LogGroupOutput() != nil {
		t.Error("LogGroupOutput() should be nil without access logging")
	}
	if st.Resource("ApiGatewayLogGroup") != nil {
		t.Error("no log group resource expected")
	}
}
