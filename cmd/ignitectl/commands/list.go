package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func listCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List authority keys, optionally filtered by role",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := chain.List(domain.KeyRole(role))
			if err != nil {
				return err
			}
			for _, k := range keys {
				expiry := "never"
				if k.ExpiresAt != nil {
					expiry = k.ExpiresAt.Format("2006-01-02T15:04:05Z")
				}
				fmt.Printf("%s  %-8s  %-8s  expires=%s\n", k.Fingerprint, k.Role, k.Status, expiry)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "filter by role: skull|master|repo|ignition|distro")
	return cmd
}
