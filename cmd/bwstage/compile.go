package main

import (
	"io"
	"os"
	"strings"

	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnstage"
	"github.com/basewarphq/bwstage/cmd/internal/projcfg"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const deploymentType = "AWS::ApiGateway::Deployment"

type CompileCmd struct {
	Config       string `short:"c" help:"Service file. Defaults to paths.config in bwstage.toml."`
	Template     string `short:"t" help:"Template to compile into. Defaults to paths.template in bwstage.toml."`
	Out          string `short:"o" help:"Where to write the template, '-' for stdout. Defaults to paths.out, then the input template."`
	Stage        string `short:"s" help:"Stage, overrides provider.stage."`
	APIName      string `name:"api-name" help:"Name of an additional REST API."`
	RestAPIID    string `name:"rest-api-id" help:"Logical id of the REST API." placeholder:"ApiGatewayRestApi"`
	DeploymentID string `name:"deployment-id" help:"Logical id of the deployment. Detected when the template has exactly one."`
}

func (c *CompileCmd) Run(e Env, proj *projcfg.Config) error {
	configPath := firstNonEmpty(c.Config, proj.ConfigPath())
	if configPath == "" {
		return errors.New("no service file: pass --config or set paths.config")
	}
	templatePath := firstNonEmpty(c.Template, proj.TemplatePath())
	if templatePath == "" {
		return errors.New("no template: pass --template or set paths.template")
	}
	outPath := firstNonEmpty(c.Out, proj.OutPath(), templatePath)

	cfg, err := readServiceConfig(configPath, c.Stage)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return errors.Wrap(err, "reading template")
	}
	doc, err := bwcfndoc.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "in %s", templatePath)
	}

	api := bwcfnstage.API{
		RestAPILogicalID:    firstNonEmpty(c.RestAPIID, proj.API.RestAPIID, bwcfnstage.DefaultRestAPILogicalID),
		DeploymentLogicalID: firstNonEmpty(c.DeploymentID, proj.API.DeploymentID),
	}
	if api.DeploymentLogicalID == "" {
		if api.DeploymentLogicalID, err = detectDeployment(doc); err != nil {
			return err
		}
	}

	var (
		compiler *bwcfnstage.Compiler
		logger   *zap.Logger
	)
	if err := wire(e, cfg, apiName(firstNonEmpty(c.APIName, proj.API.Name)), &compiler, &logger); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := compiler.Compile(doc, cfg, api); err != nil {
		return errors.Wrapf(err, "compiling stage %q of %s", cfg.StageName, cfg.ServiceName)
	}

	if err := writeTemplate(os.Stdout, doc, outPath); err != nil {
		return err
	}

	logger.Info("compiled api gateway stage",
		zap.String("service", cfg.ServiceName),
		zap.String("stage", cfg.StageName),
		zap.String("deployment", api.DeploymentLogicalID),
		zap.String("out", outPath),
	)
	return nil
}

// writeTemplate writes doc to outPath in the format of its extension, or as
// JSON to stdout when outPath is "-".
func writeTemplate(stdout io.Writer, doc *bwcfndoc.Document, outPath string) error {
	if outPath == "-" {
		out, err := doc.Encode(bwcfndoc.FormatJSON)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return errors.Wrap(err, "writing template")
	}

	format, err := bwcfndoc.FormatFromPath(outPath)
	if err != nil {
		return err
	}
	out, err := doc.Encode(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil { //nolint:gosec // templates are not secret
		return errors.Wrap(err, "writing template")
	}
	return nil
}

func readServiceConfig(path, stage string) (*bwcfnconfig.ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading service file")
	}
	cfg, err := bwcfnconfig.Parse(data, bwcfnconfig.Options{Stage: stage})
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return cfg, nil
}

func detectDeployment(doc *bwcfndoc.Document) (string, error) {
	ids := doc.Resources.IDsOfType(deploymentType)
	switch len(ids) {
	case 1:
		return ids[0], nil
	case 0:
		return "", errors.Wrapf(bwcfnstage.ErrMissingDeployment, "template has no %s", deploymentType)
	default:
		return "", errors.Newf("template has %d deployments (%s), pass --deployment-id",
			len(ids), strings.Join(ids, ", "))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
