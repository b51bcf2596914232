package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/domain"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a chain, a proof bundle, or a manifest",
	}
	cmd.AddCommand(verifyChainCmd(), verifyProofCmd(), verifyManifestCmd())
	return cmd
}

func verifyChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <fingerprint>",
		Short: "Walk a key's ancestry to the Skull, checking every claim and receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := chain.VerifyChain(domain.Fingerprint(args[0])); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func verifyProofCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proof <vault-relative-path>",
		Short: "Verify a proof bundle's signature, digest and expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := chain.VerifyProof(args[0]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func verifyManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest <vault-relative-path>",
		Short: "Recompute a manifest's digest and compare against digest.value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := chain.VerifyManifest(args[0]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}
