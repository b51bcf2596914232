package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func createCmd() *cobra.Command {
	var (
		parentFP         string
		role             string
		passphrase       string
		unlockPassphrase string
		owner            string
		scopeFlags       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mint a new key under a parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if parentFP == "" {
				return fmt.Errorf("--parent is required")
			}
			if role == "" {
				return fmt.Errorf("--role is required")
			}
			scope, err := parseScope(scopeFlags)
			if err != nil {
				return err
			}

			if unlockPassphrase != "" {
				if err := chain.Unlock(domain.Fingerprint(parentFP), unlockPassphrase); err != nil {
					return err
				}
			}

			key, err := chain.CreateWithMetadata(domain.Fingerprint(parentFP), domain.KeyRole(role), passphrase, scope, owner)
			if err != nil {
				return err
			}
			fmt.Printf("Key created.\nFingerprint: %s\nRole: %s\n", key.Fingerprint, key.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentFP, "parent", "", "parent key fingerprint")
	cmd.Flags().StringVar(&role, "role", "", "child role: master|repo|ignition|distro")
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for an ignition-tier child (ignition, distro)")
	cmd.Flags().StringVar(&unlockPassphrase, "parent-passphrase", "", "passphrase to unlock the parent, if it is an ignition-tier key")
	cmd.Flags().StringVar(&owner, "owner", "", "owner/creator identifier")
	cmd.Flags().StringArrayVar(&scopeFlags, "scope", nil, "scope entry as key=value, repeatable")
	return cmd
}

func parseScope(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	scope := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --scope entry %q, want key=value", e)
		}
		scope[k] = v
	}
	return scope, nil
}
