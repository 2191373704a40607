package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/facet/pkg/engine"
	"github.com/spf13/cobra"
)

func newEvalCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <script>",
		Short: "Evaluate a construction script and write its solids",
		Long: `eval runs a zygomys Lisp construction script in a sandbox. The script
builds vectors, lines and planes, intersects them, and declares solids:

  (def floor-plane (plane :at (vec3 0 0 -5) :normal (vec3 0 0 1)))
  (solid "wedge" :vertices (list ...) :faces (list (list 0 1 2) ...))

Use "-" to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			src, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			timeout, err := cfg.Engine.TimeoutDuration()
			if err != nil {
				return err
			}

			eng := engine.NewEngine()
			eng.Timeout = timeout
			res, evalErrs, err := eng.Evaluate(src)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}
			if len(evalErrs) > 0 {
				for _, e := range evalErrs {
					log.Printf("%s: %v", args[0], e)
				}
				return fmt.Errorf("eval: %s: %d error(s)", args[0], len(evalErrs))
			}
			for _, w := range res.Warnings {
				logWarning(w.Solid, w.Message)
			}
			if len(res.Solids) == 0 {
				return fmt.Errorf("eval: %s declares no solids", args[0])
			}
			return writeSolids(cmd.OutOrStdout(), cfg.Output, res.Solids, res.Warnings)
		},
	}
}

func readScript(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("eval: reading script: %w", err)
	}
	return string(data), nil
}
