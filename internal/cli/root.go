package cli

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the recruitmesh command tree. Running the root command
// without a subcommand starts the chat.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	chat := chatCmd(flags)

	cmd := &cobra.Command{
		Use:   "recruitmesh",
		Short: "Turn job postings into social recruiting ads with a team of agents",
		Long: `recruitmesh drives a chain of specialized agents (coordinator, research,
copy, review, finalization) that turn a job posting URL into a finished
social recruiting ad saved to the work directory.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         chat.RunE,
	}

	cmd.Flags().AddFlagSet(chat.Flags())

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(chat)
	cmd.AddCommand(graphCmd(flags))
	cmd.AddCommand(adsCmd(flags))

	return cmd
}
