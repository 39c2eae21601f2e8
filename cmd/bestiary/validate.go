package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/shape"
)

func newValidateCmd(o *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [keys...]",
		Short: "Check every item's shape tree for structural and geometric problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.catalog(nil)
			if err != nil {
				return err
			}
			keys, err := parseKeys(b, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var errs, warns int
			for _, k := range keys {
				item := b[k]
				res := shape.ValidateAll(item.Shape)
				for _, e := range res.Errors {
					fmt.Fprintf(out, "%s %s: %s\n", k, item.Name, e)
				}
				for _, w := range res.Warnings {
					fmt.Fprintf(out, "%s %s: %s\n", k, item.Name, w)
				}
				errs += len(res.Errors)
				warns += len(res.Warnings)
				o.log.Debug("validated", "key", k.String(), "errors", len(res.Errors), "warnings", len(res.Warnings))
			}

			fmt.Fprintf(out, "%d items, %d errors, %d warnings\n", len(keys), errs, warns)
			if errs > 0 || (strict && warns > 0) {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
