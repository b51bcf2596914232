package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func bootstrapCmd() *cobra.Command {
	var passphrase, owner string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Mint the vault's root Skull key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (--passphrase)")
			}
			key, err := chain.Bootstrap(passphrase, nil, owner)
			if err != nil {
				return err
			}
			fmt.Printf("Skull bootstrapped.\nFingerprint: %s\n", key.Fingerprint)
			return nil
		},
	}
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the Skull's private key")
	cmd.Flags().StringVar(&owner, "owner", "", "owner/creator identifier")
	return cmd
}
