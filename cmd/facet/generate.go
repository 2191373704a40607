package main

import (
	"fmt"

	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/scene"
	"github.com/spf13/cobra"
)

func newGenerateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the parameterized enclosure",
		Long: `generate builds the faceted enclosure: a parallelogram front face whose
four sides are hinged on its edges and tilted, closed by a floor plane.
Lengths are in inches and angles in radians. Values come from flags, then
FACET_ENCLOSURE_* environment variables, then the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			m, err := cfg.Enclosure.Build()
			if err != nil {
				return err
			}
			name := cfg.Output.SolidName
			var warnings []engine.EvalWarning
			for _, w := range m.Warnings() {
				logWarning(name, w.Error())
				warnings = append(warnings, engine.EvalWarning{Solid: name, Message: w.Error()})
			}
			solids := []engine.Solid{{Name: name, Mesh: m}}
			if err := writeSolids(cmd.OutOrStdout(), cfg.Output, solids, warnings); err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			return nil
		},
	}

	d := scene.DefaultEnclosure()
	f := cmd.Flags()
	f.Float64("width", d.Width, "front width")
	f.Float64("height", d.Height, "front height")
	f.Float64("depth", d.Depth, "distance from the front to the floor")
	f.Float64("lean", d.Lean, "angle of the slanted front edges")
	f.Float64("tilt", d.Tilt, "rotation of each side about its front edge")
	for _, k := range []string{"width", "height", "depth", "lean", "tilt"} {
		bind(c.v, cmd, "enclosure."+k, k)
	}
	return cmd
}
