// Command facet builds faceted solids and writes them as STL.
//
//	facet generate --width 22 --height 14 --out enclosure.stl
//	facet eval part.lisp --format json
//	facet config init
package main

import (
	"log"
	"os"

	"github.com/chazu/facet/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("facet: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

// cli holds state shared by subcommands.
type cli struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "facet",
		Short: "Build faceted solids from planes and write them as STL",
		Long: `facet computes the corners of a convex solid by intersecting lines and
planes, shifts it into the positive octant, converts inches to millimeters
and writes a triangulated STL mesh.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./facet.yaml or ~/.facet/facet.yaml)")

	flags := root.PersistentFlags()
	flags.String("format", "", "output format: ascii, binary or json")
	flags.StringP("out", "o", "", `output path, "-" for stdout`)
	flags.String("name", "", "solid name written to ASCII STL")
	bind(c.v, root, "output.format", "format")
	bind(c.v, root, "output.path", "out")
	bind(c.v, root, "output.solid_name", "name")

	root.AddCommand(
		newGenerateCmd(c),
		newEvalCmd(c),
		newConfigCmd(c),
	)
	return root
}

// bind attaches a persistent flag to a config key. Flags only override
// the config when set on the command line.
func bind(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := v.BindPFlag(key, f); err != nil {
		log.Fatalf("binding flag %s: %v", flag, err)
	}
}

func (c *cli) load() (*config.Config, error) {
	return config.Load(c.v, c.cfgFile)
}
