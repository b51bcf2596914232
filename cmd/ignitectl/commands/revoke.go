package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func revokeCmd() *cobra.Command {
	var (
		reason           string
		unlockFP         string
		unlockPassphrase string
	)

	cmd := &cobra.Command{
		Use:   "revoke <fingerprint>",
		Short: "Permanently revoke a key, cascading to its dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := domain.Fingerprint(args[0])
			if unlockFP != "" {
				if err := chain.Unlock(domain.Fingerprint(unlockFP), unlockPassphrase); err != nil {
					return err
				}
			}
			manifest, err := chain.Revoke(target, reason)
			if err != nil {
				return err
			}
			fmt.Printf("Revoked.\nManifest affected: %d key(s)\n", len(manifest.Children))
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded on the tombstone and manifest")
	cmd.Flags().StringVar(&unlockFP, "unlock-fp", "", "fingerprint to unlock before revoking (revocation itself signs no record)")
	cmd.Flags().StringVar(&unlockPassphrase, "unlock-passphrase", "", "passphrase for --unlock-fp")
	return cmd
}
