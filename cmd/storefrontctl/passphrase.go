package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/security"
)

const generatedPassphraseLength = 24

func newPassphraseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Manage the admin passphrase",
	}

	var (
		generate bool
		plain    bool
	)
	set := &cobra.Command{
		Use:   "set [passphrase]",
		Short: "Store the admin passphrase in the settings table",
		Long: `Store the admin passphrase in the settings table. The stored value
takes precedence over TOPPERS_ADMIN_PASSPHRASE.

Examples:
  storefrontctl passphrase set 'correct horse battery'
  storefrontctl passphrase set --generate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var passphrase string
			switch {
			case generate && len(args) > 0:
				return fmt.Errorf("pass a passphrase or --generate, not both")
			case generate:
				generated, err := security.GeneratePassphrase(generatedPassphraseLength)
				if err != nil {
					return err
				}
				passphrase = generated
			case len(args) == 1:
				passphrase = strings.TrimSpace(args[0])
			default:
				return fmt.Errorf("passphrase is required")
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase cannot be empty")
			}

			return opts.withServices(cmd.Context(), func(svc *services) error {
				stored := passphrase
				if !plain {
					hashed, err := security.HashPassphrase(passphrase, svc.password)
					if err != nil {
						return err
					}
					stored = hashed
				}
				if err := svc.settings.SetAdminPassphrase(cmd.Context(), stored); err != nil {
					return fmt.Errorf("store passphrase: %w", err)
				}
				if generate {
					fmt.Fprintln(cmd.OutOrStdout(), passphrase)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "admin passphrase updated")
				return nil
			})
		},
	}
	set.Flags().BoolVar(&generate, "generate", false, "Generate a random passphrase and print it")
	set.Flags().BoolVar(&plain, "plain", false, "Store the passphrase without hashing")

	cmd.AddCommand(set)
	return cmd
}
