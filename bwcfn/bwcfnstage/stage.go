package bwcfnstage

import (
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfntags"
)

const stageType = "AWS::ApiGateway::Stage"

// StageInput holds everything the stage shape depends on.
type StageInput struct {
	TracingEnabled bool
	Tags           bwcfntags.List
	Logging        Logging
	// StageName is the resolved stage name, override applied.
	StageName string

	RestAPIID    string
	DeploymentID string
	// DependsOn lists resources the stage must be created after. Optional.
	DependsOn []string
}

// StagePlan is the outcome of ResolveStage. Exactly one of Stage and
// DeploymentStageName is set.
type StagePlan struct {
	// Stage is the dedicated stage resource.
	Stage *bwcfndoc.Resource
	// DeploymentStageName goes on the deployment's StageName property when no
	// dedicated stage is needed.
	DeploymentStageName string
}

// StageRequired reports whether the stage needs its own resource. Tracing,
// tags and logging can only be set on a Stage; a bare stage name fits on the
// deployment.
func StageRequired(tracing bool, tags bwcfntags.List, logging Logging) bool {
	return tracing || len(tags) > 0 || !logging.Empty()
}

// ResolveStage decides between a dedicated stage resource and a stage name on
// the deployment.
func ResolveStage(in StageInput) StagePlan {
	if !StageRequired(in.TracingEnabled, in.Tags, in.Logging) {
		return StagePlan{DeploymentStageName: in.StageName}
	}

	stage := &bwcfndoc.Resource{Type: stageType}
	if len(in.DependsOn) > 0 {
		stage.DependsOn = append([]string(nil), in.DependsOn...)
	}
	stage.SetProperty("RestApiId", ref(in.RestAPIID))
	stage.SetProperty("DeploymentId", ref(in.DeploymentID))
	stage.SetProperty("StageName", in.StageName)
	stage.SetProperty("Tags", tagsProperty(in.Tags))
	stage.SetProperty("TracingEnabled", in.TracingEnabled)
	if len(in.Logging.MethodSettings) > 0 {
		stage.SetProperty("MethodSettings", in.Logging.MethodSettings)
	}
	if in.Logging.AccessLogSetting != nil {
		stage.SetProperty("AccessLogSetting", in.Logging.AccessLogSetting)
	}

	return StagePlan{Stage: stage}
}

// tagsProperty renders tags as a CloudFormation tag list. It is never nil so
// an untagged stage still gets "Tags: []".
func tagsProperty(tags bwcfntags.List) []any {
	out := make([]any, 0, len(tags))
	for _, t := range tags {
		m := bwcfndoc.NewMap()
		m.Set("Key", t.Key)
		m.Set("Value", t.Value)
		out = append(out, m)
	}
	return out
}
