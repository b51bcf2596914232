package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <fingerprint>",
		Short: "Print a key's role, status, parent and expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := domain.Fingerprint(args[0])
			keys, err := chain.List("")
			if err != nil {
				return err
			}
			for _, k := range keys {
				if k.Fingerprint != want {
					continue
				}
				expiry := "never"
				if k.ExpiresAt != nil {
					expiry = k.ExpiresAt.Format("2006-01-02T15:04:05Z")
				}
				fmt.Printf("Fingerprint: %s\nRole:        %s\nStatus:      %s\nParent:      %s\nOwner:       %s\nExpires:     %s\n",
					k.Fingerprint, k.Role, k.Status, k.ParentFingerprint, k.Owner, expiry)
				return nil
			}
			return fmt.Errorf("fingerprint not found: %s", want)
		},
	}
}
