package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/bestiary/pkg/kernel/sdfx"
	"github.com/chazu/bestiary/pkg/tessellate"
)

func newExportCmd(o *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export [keys...]",
		Short: "Write items to binary STL files, one per key",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.catalog(nil)
			if err != nil {
				return err
			}
			keys, err := parseKeys(b, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") {
				dir = o.cfg.Export.Dir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			k := sdfx.New()
			for _, key := range keys {
				item := b[key]
				meshes, err := tessellate.Tessellate(item.Shape, item.Transform())
				if err != nil {
					return fmt.Errorf("key %s: %w", key, err)
				}

				path := filepath.Join(dir, fmt.Sprintf("%s-%s.stl", key, item.Name))
				if err := k.SaveSTL(path, meshes); err != nil {
					return fmt.Errorf("key %s: %w", key, err)
				}

				box, _ := k.Bounds(meshes)
				size := box.Size()
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d meshes  %.3g x %.3g x %.3g\n", path, len(meshes), size[0], size[1], size[2])
				o.log.Info("exported", "key", key.String(), "name", item.Name, "path", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from the configuration)")
	return cmd
}
