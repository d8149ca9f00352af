package cli

import (
	"github.com/spf13/cobra"
)

func chatCmd(flags *rootFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive campaign creator",
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

			m, err := a.model()
			if err != nil {
				return err
			}

			r, err := a.runner(m, p, verbose)
			if err != nil {
				return err
			}

			a.logger.Info("cli.chat.start", "provider", a.cfg.Provider, "work_dir", a.cfg.WorkDir, "max_iterations", a.cfg.MaxIterations)

			return r.Loop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print handoffs and tool results")

	return cmd
}
