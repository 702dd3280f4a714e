package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bamboo-dev/bamboo/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		sets     []string
		output   string
		fragment bool
		strip    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Bind data to a template and print the HTML",
		Long: `Load a template and its data, bind them, apply any --set writes
and print the resulting HTML.

Each --set goes through the same reactive write path as a browser
event, so every binding of the key re-renders.

Examples:
  bamboo render -t page.html -d state.yaml
  bamboo render -t s3://site/page.html --set count=5 --fragment
  bamboo render --config site/bamboo.yaml -o out.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			writes, order, err := parseSets(sets)
			if err != nil {
				return err
			}

			vm, doc, err := mount(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			for _, key := range order {
				vm.Set(key, writes[key])
			}

			r := render.NewRenderer(render.RendererConfig{
				Pretty:            cfg.Pretty,
				StripDirectives:   strip,
				DirectivePrefixes: []string{cfg.Prefix, "@", ":"},
			})

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			if fragment {
				err = r.RenderChildren(out, vm.Host())
			} else {
				err = r.RenderToWriter(out, doc)
			}
			if err != nil {
				return err
			}
			_, err = out.Write([]byte("\n"))
			return err
		},
	}

	addSourceFlags(cmd.Flags())
	cmd.Flags().Bool("pretty", false, "Indent the output")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Write key=value after binding (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Print only the host's content")
	cmd.Flags().BoolVar(&strip, "strip", false, "Drop directive attributes from the output")

	return cmd
}
