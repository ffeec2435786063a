package main

import (
	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnstage"
	"github.com/cockroachdb/errors"
	"go.uber.org/fx"
)

// apiName names an additional REST API; empty for the default one.
type apiName string

func newNaming(cfg *bwcfnconfig.ServiceConfig, name apiName) bwcfnnaming.Provider {
	return bwcfnnaming.New(cfg.NamingInput(string(name)))
}

// wire builds the logger, naming provider and compiler for cfg and fills the
// given pointers, e.g. a **bwcfnstage.Compiler.
func wire(e Env, cfg *bwcfnconfig.ServiceConfig, name apiName, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(e, cfg, name),
		fx.Provide(newLogger, newNaming, bwcfnstage.New),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "wiring dependencies")
	}
	return nil
}
