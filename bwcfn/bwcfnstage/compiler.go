// Package bwcfnstage compiles the API Gateway stage of a service into a
// CloudFormation document.
//
// A stage is either a dedicated AWS::ApiGateway::Stage resource or just a
// StageName on the existing AWS::ApiGateway::Deployment. A dedicated stage is
// only written when the service asks for something the deployment cannot
// carry: tracing, tags or REST API logging. Logging in turn fans out into an
// access log group, the stage's AccessLogSetting and MethodSettings, and the
// custom resource that registers the account's CloudWatch role.
//
// [Compiler.Compile] runs all of this for one REST API. It only mutates the
// document it is given and performs no I/O. Compiling the same configuration
// twice into the same document leaves it unchanged.
package bwcfnstage

import (
	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/basewarphq/bwstage/bwcfn/bwcfntags"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	// ErrMissingDeployment is returned when the deployment resource is not in
	// the document.
	ErrMissingDeployment = errors.New("deployment resource not found")
	// ErrUnresolvableStage is returned when no valid stage name can be
	// resolved.
	ErrUnresolvableStage = errors.New("stage name cannot be resolved")
	// ErrRoleCollision is returned when the CloudWatch role logical id is taken
	// by an unrelated resource.
	ErrRoleCollision = errors.New("cloudwatch role logical id collision")
	// ErrInvalidRoleArn is returned when the configured CloudWatch role is not
	// an IAM role ARN.
	ErrInvalidRoleArn = errors.New("invalid cloudwatch role arn")
)

// DefaultRestAPILogicalID is the logical id of the REST API created by the
// packaging pipeline.
const DefaultRestAPILogicalID = "ApiGatewayRestApi"

const maxStageNameLength = 128

// API identifies the REST API being compiled.
type API struct {
	// RestAPILogicalID is the logical id of the AWS::ApiGateway::RestApi.
	RestAPILogicalID string
	// DeploymentLogicalID is the logical id of the AWS::ApiGateway::Deployment.
	// It must exist in the document.
	DeploymentLogicalID string
}

// Compiler writes the stage resources of a REST API.
type Compiler struct {
	names  bwcfnnaming.Provider
	logger *zap.Logger
}

// New creates a Compiler. A nil logger discards all output.
func New(names bwcfnnaming.Provider, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{names: names, logger: logger}
}

// Compile writes the stage of api into doc.
//
// The caller owns doc and must not touch it concurrently. When an error is
// returned doc may be partially updated and should be discarded.
func (c *Compiler) Compile(doc *bwcfndoc.Document, cfg *bwcfnconfig.ServiceConfig, api API) error {
	if api.RestAPILogicalID == "" {
		api.RestAPILogicalID = DefaultRestAPILogicalID
	}

	deployment, ok := doc.Resources.Get(api.DeploymentLogicalID)
	if !ok {
		return errors.Wrapf(ErrMissingDeployment, "logical id %q", api.DeploymentLogicalID)
	}

	stageName := c.names.ResolvedStageName()
	if err := validateStageName(stageName); err != nil {
		return err
	}

	tags := bwcfntags.Merge(cfg.StackTags, cfg.Tags)
	logging := SynthesizeLogging(cfg.Logs, cfg.LogRetentionInDays, cfg.LogDataProtectionPolicy, c.names)

	roleID, err := EnsureCloudWatchRole(doc, logging, cfg.Logs, c.names)
	if err != nil {
		return err
	}

	in := StageInput{
		TracingEnabled: cfg.TracingEnabled,
		Tags:           tags,
		Logging:        logging,
		StageName:      stageName,
		RestAPIID:      api.RestAPILogicalID,
		DeploymentID:   api.DeploymentLogicalID,
	}
	if roleID != "" {
		in.DependsOn = []string{roleID}
	}
	plan := ResolveStage(in)

	c.logger.Debug("resolved api gateway stage",
		zap.String("rest_api", api.RestAPILogicalID),
		zap.String("stage", stageName),
		zap.Bool("dedicated", plan.Stage != nil),
		zap.Bool("tracing", cfg.TracingEnabled),
		zap.Int("tags", len(tags)),
		zap.Stringer("logs", cfg.Logs.Kind),
		zap.Bool("log_group", logging.LogGroup != nil),
		zap.Bool("method_settings", len(logging.MethodSettings) > 0),
		zap.String("cloudwatch_role", roleID),
	)

	stageID := c.names.StageLogicalID()
	if plan.Stage == nil {
		if doc.Resources.Has(stageID) {
			return errors.Wrapf(bwcfndoc.ErrConflict,
				"resource %q exists but the stage fits on the deployment", stageID)
		}
		deployment.SetProperty("StageName", plan.DeploymentStageName)
		return nil
	}

	if logging.LogGroup != nil {
		if err := doc.Resources.Put(logging.LogGroupID, logging.LogGroup); err != nil {
			return errors.Wrap(err, "inserting access log group")
		}
	}
	if err := doc.Resources.Put(stageID, plan.Stage); err != nil {
		return errors.Wrap(err, "inserting stage")
	}
	deployment.DeleteProperty("StageName")
	return nil
}

// validateStageName checks the characters API Gateway accepts in a stage name.
func validateStageName(name string) error {
	if name == "" {
		return errors.Wrap(ErrUnresolvableStage, "stage name is empty")
	}
	if len(name) > maxStageNameLength {
		return errors.Wrapf(ErrUnresolvableStage, "stage name %q is longer than %d characters", name, maxStageNameLength)
	}
	for _, r := range name {
		if !isStageNameRune(r) {
			return errors.Wrapf(ErrUnresolvableStage, "stage name %q contains %q", name, r)
		}
	}
	return nil
}

func isStageNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}
