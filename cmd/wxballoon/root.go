package main

import (
	"io"

	"github.com/spf13/cobra"

	"wxballoon/config"
)

func newRootCmd(stdin io.Reader) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "wxballoon [postal-code]",
		Short:         "Show today's and tomorrow's weather for a Japanese postal code",
		Long:          "wxballoon resolves a 7-digit postal code (1000001 or 100-0001) to its address,\nfetches a two-day forecast and shows it as a notification.\nWithout an argument the postal code is asked for interactively.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf, err := config.Load(configPath)
			if err != nil {
				return err
			}

			a, err := newApp(cnf, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			a.execute(cmd.Context(), arg)

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	return cmd
}
