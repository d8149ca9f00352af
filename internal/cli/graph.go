package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/recruitmesh/tool"
)

func graphCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the agents and their handoff edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			p, err := a.pipeline()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			entry, err := p.Graph.Entry()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "entry: %s\n\n", entry.Name())

			for _, d := range p.Graph.Agents() {
				names := make([]string, 0, len(d.AllowedTools()))
				for _, t := range d.AllowedTools() {
					names = append(names, tool.Describe(t))
				}
				fmt.Fprintf(out, "%-13s %s [%s]\n", d.Name(), d.Description(), strings.Join(names, ", "))
			}

			fmt.Fprintln(out)

			for _, e := range p.Graph.Edges() {
				fmt.Fprintf(out, "%s --%s--> %s\n", e.From, e.Tool, e.To)
			}

			return nil
		},
	}
}
