package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fatali-fataliyev/club_treasury/logging"
)

func newPhonesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "phones",
		Short: "List the normalized phone numbers allowed to log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logging.Logger.SetLevel(logging.ParseLevel(cfg.Log.Level))

			numbers, err := newApp(cfg).treasury.AllowedNumbers(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range numbers {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <phone-number>",
		Short: "Report whether a phone number may log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logging.Logger.SetLevel(logging.ParseLevel(cfg.Log.Level))

			verdict := "denied"
			if newApp(cfg).treasury.IsAllowed(cmd.Context(), args[0]) {
				verdict = "allowed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], verdict)
			return nil
		},
	}
}
