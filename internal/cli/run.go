package cli

import (
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/librarybot/core/cmd"
	"github.com/m3rciful/librarybot/internal/app"
	"github.com/m3rciful/librarybot/internal/config"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot",
		Long: `Loads the configuration, opens the catalog store and starts polling
(or the webhook server when telegram.run_mode is webhook) until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return corecmd.Run(runOptions(configPath()))
		},
	}
}

func runOptions(path string) corecmd.Options {
	return corecmd.Options{
		ConfigPath:        path,
		ConfigEnvVar:      envConfigPath,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(p string) (corecmd.ConfigCarrier, error) {
			return config.Load(p)
		},
		Bootstrap: func(c corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(c.(*config.Config))
		},
	}
}
