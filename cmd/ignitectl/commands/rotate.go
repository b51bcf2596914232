package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func rotateCmd() *cobra.Command {
	var (
		passphrase       string
		unlockFP         string
		unlockPassphrase string
	)

	cmd := &cobra.Command{
		Use:   "rotate <fingerprint>",
		Short: "Retire a key and mint its replacement, cascading to dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := domain.Fingerprint(args[0])
			if unlockFP != "" {
				if err := chain.Unlock(domain.Fingerprint(unlockFP), unlockPassphrase); err != nil {
					return err
				}
			}
			replacement, manifest, err := chain.Rotate(target, passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Rotated.\nNew fingerprint: %s\nManifest affected: %d key(s)\n",
				replacement.Fingerprint, len(manifest.Children))
			return nil
		},
	}
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the replacement key, if ignition-tier")
	cmd.Flags().StringVar(&unlockFP, "unlock-fp", "",
		"fingerprint to unlock before rotating: the target's parent, or the target itself for a Skull rotation")
	cmd.Flags().StringVar(&unlockPassphrase, "unlock-passphrase", "", "passphrase for --unlock-fp")
	return cmd
}
