package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/basewarphq/bwstage/cmd/internal/projcfg"
	"github.com/cockroachdb/errors"
)

type NamesCmd struct {
	Config  string `short:"c" help:"Service file. Defaults to paths.config in bwstage.toml."`
	Stage   string `short:"s" help:"Stage, overrides provider.stage."`
	APIName string `name:"api-name" help:"Name of an additional REST API."`
}

func (c *NamesCmd) Run(e Env, proj *projcfg.Config) error {
	configPath := firstNonEmpty(c.Config, proj.ConfigPath())
	if configPath == "" {
		return errors.New("no service file: pass --config or set paths.config")
	}

	cfg, err := readServiceConfig(configPath, c.Stage)
	if err != nil {
		return err
	}

	var names bwcfnnaming.Provider
	if err := wire(e, cfg, apiName(firstNonEmpty(c.APIName, proj.API.Name)), &names); err != nil {
		return err
	}

	return printNames(os.Stdout, names)
}

func printNames(w io.Writer, names bwcfnnaming.Provider) error {
	rows := [][]string{
		{"stage", names.ResolvedStageName()},
		{"stage resource", names.StageLogicalID()},
		{"log group resource", names.LogGroupLogicalID()},
		{"log group name", names.LogGroupName()},
		{"cloudwatch role resource", names.CloudWatchRoleLogicalID()},
		{"cloudwatch role handler", names.CloudWatchRoleHandlerLogicalID()},
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"NAME", "VALUE"}, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return errors.Wrap(tw.Flush(), "writing names")
}
