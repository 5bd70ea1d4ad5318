package cli

import (
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlive/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of mdlive.`,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportTimestamp: false,
				ReportCaller:    false,
			})
			logger.SetLevel(log.InfoLevel)

			logger.Info("mdlive",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldGo, runtime.Version(),
			)
		},
	}
}
