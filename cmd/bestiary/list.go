package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/shape"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the item bound to each key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.catalog(nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tPLACEMENTS\tLEAVES\tFACES\tMODIFIERS\tFINGERPRINT")
			for _, k := range b.Keys() {
				item := b[k]
				st := shape.Summarize(item.Shape)

				var mods []string
				if item.Spin != nil {
					mods = append(mods, fmt.Sprintf("spin %.2g rad/s", item.Spin.Speed))
				}
				if item.SlowMo != nil {
					mods = append(mods, fmt.Sprintf("slow-mo x%.2g", item.SlowMo.Factor))
				}
				if len(mods) == 0 {
					mods = append(mods, "-")
				}

				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					k, item.Name, st.Placements, st.LeafVisits, st.Faces,
					strings.Join(mods, ", "), shape.Fingerprint(item.Shape)[:12])
			}
			return w.Flush()
		},
	}
}
