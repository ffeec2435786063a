package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/basewarphq/bwstage/cmd/internal/projcfg"
	"github.com/basewarphq/bwstage/cmd/internal/version"
	"github.com/cockroachdb/errors"
)

type App struct {
	Version kong.VersionFlag `help:"Show version."`

	Compile CompileCmd `cmd:"" help:"Compile the API Gateway stage of a service into a template."`
	Names   NamesCmd   `cmd:"" help:"Show the logical ids and names used for a service."`
}

func main() {
	env, err := ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var app App
	ctx := kong.Parse(&app, options(env, loadProject)...)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options configures the parser. The project file is provided lazily so that
// --help and --version work next to a broken bwstage.toml.
func options(env Env, project func() (*projcfg.Config, error)) []kong.Option {
	return []kong.Option{
		kong.Name("bwstage"),
		kong.Description("Compiles API Gateway stages into CloudFormation templates."),
		kong.Vars{"version": version.Version},
		kong.Bind(env),
		kong.BindToProvider(project),
	}
}

// loadProject reads bwstage.toml from the working directory or one of its
// parents.
func loadProject() (*projcfg.Config, error) {
	return optionalProject(projcfg.Load())
}

// optionalProject turns a missing project file into empty defaults.
func optionalProject(proj *projcfg.Config, err error) (*projcfg.Config, error) {
	if errors.Is(err, projcfg.ErrNotFound) {
		return &projcfg.Config{}, nil
	}
	return proj, err
}
