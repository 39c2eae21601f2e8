// Command bestiary builds the procedural shape catalog, or evaluates a
// bestiary script, and works on its items from the terminal.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/bestiary"
	"github.com/chazu/bestiary/pkg/config"
	"github.com/chazu/bestiary/pkg/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags and the configuration they resolve to.
type options struct {
	configPath string
	seed       uint64
	logLevel   string
	script     string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "bestiary",
		Short:         "Build, inspect and export the procedural shape bestiary",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", config.DefaultPath, "configuration file")
	f.Uint64Var(&o.seed, "seed", 0, "random seed, overriding the configuration (0 means random)")
	f.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error, overriding the configuration")
	f.StringVar(&o.script, "script", "", "bestiary script to evaluate instead of the built-in catalog")

	root.AddCommand(
		newListCmd(o),
		newValidateCmd(o),
		newExportCmd(o),
		newEvalCmd(o),
		newPreviewCmd(o),
	)
	return root
}

// load reads the configuration file and applies flag overrides.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = o.seed
	}
	if cmd.Flags().Changed("log-level") {
		if _, err := config.ParseLevel(o.logLevel); err != nil {
			return err
		}
		cfg.LogLevel = o.logLevel
	}

	o.cfg = cfg
	o.log = cfg.Logger()
	slog.SetDefault(o.log)
	o.log.Debug("configuration loaded", "path", o.configPath, "seed", cfg.Seed, "max_attempts", cfg.MaxAttempts)
	return nil
}

// catalog returns the items to work on: the evaluated --script when given,
// the built-in catalog otherwise. cam may be nil.
func (o *options) catalog(cam bestiary.Camera) (bestiary.Bestiary, error) {
	if o.script == "" {
		var r *rand.Rand
		if o.cfg.Seed != 0 {
			r = rand.New(rand.NewPCG(o.cfg.Seed, o.cfg.Seed))
		}
		var world bestiary.World
		if cam != nil {
			world = bestiary.StaticWorld{Cam: cam}
		}
		return bestiary.Build(world, bestiary.Options{
			Rand:        r,
			MaxAttempts: o.cfg.MaxAttempts,
			Logger:      o.log,
		})
	}

	source, err := os.ReadFile(o.script)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithMaxAttempts(o.cfg.MaxAttempts),
		engine.WithLogger(o.log),
	}
	if cam != nil {
		opts = append(opts, engine.WithCamera(cam))
	}
	if o.cfg.Seed != 0 {
		opts = append(opts, engine.WithSeed(o.cfg.Seed))
	}

	res, err := engine.NewEngine(opts...).Run(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.script, err)
	}
	for _, w := range res.Warnings {
		o.log.Warn("script warning", "script", o.script, "key", w.Key.String(), "msg", w.Message)
	}
	if len(res.Errors) > 0 {
		errs := lo.Map(res.Errors, func(e engine.EvalError, _ int) error { return e })
		return nil, fmt.Errorf("%s: %w", o.script, errors.Join(errs...))
	}
	return res.Bestiary, nil
}

// parseKeys turns digit arguments into triggers, in order and without
// repeats. No arguments selects every bound key.
func parseKeys(b bestiary.Bestiary, args []string) ([]bestiary.TriggerID, error) {
	if len(args) == 0 {
		return b.Keys(), nil
	}
	keys := make([]bestiary.TriggerID, 0, len(args))
	for _, a := range lo.Uniq(args) {
		t, err := bestiary.ParseTrigger(a)
		if err != nil {
			return nil, err
		}
		if _, ok := b.Lookup(t); !ok {
			return nil, fmt.Errorf("no item bound to key %s", t)
		}
		keys = append(keys, t)
	}
	return keys, nil
}
