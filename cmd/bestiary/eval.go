package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/engine"
	"github.com/chazu/bestiary/pkg/shape"
)

func newEvalCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <script|->",
		Short: "Evaluate a bestiary script and report its items, errors and warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var (
				source []byte
				err    error
			)
			if name == "-" {
				source, err = io.ReadAll(cmd.InOrStdin())
				name = "<stdin>"
			} else {
				source, err = os.ReadFile(name)
			}
			if err != nil {
				return err
			}

			opts := []engine.Option{
				engine.WithMaxAttempts(o.cfg.MaxAttempts),
				engine.WithLogger(o.log),
			}
			if o.cfg.Seed != 0 {
				opts = append(opts, engine.WithSeed(o.cfg.Seed))
			}
			res, err := engine.NewEngine(opts...).Run(string(source))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			out := cmd.OutOrStdout()
			for _, e := range res.Errors {
				fmt.Fprintf(out, "%s:%d: error: %s\n", name, e.Line, e.Message)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "%s:%d: warning: key %s: %s\n", name, w.Line, w.Key, w.Message)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%s: %d errors", name, len(res.Errors))
			}

			for _, k := range res.Bestiary.Keys() {
				item := res.Bestiary[k]
				st := shape.Summarize(item.Shape)
				fmt.Fprintf(out, "%s  %s  %d placements, %d faces\n", k, item.Name, st.Placements, st.Faces)
			}
			fmt.Fprintf(out, "%s: %d items\n", name, len(res.Bestiary))
			return nil
		},
	}
}
