package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/padlokk/ignition/internal/authority"
	"github.com/padlokk/ignition/internal/obs"
	"github.com/padlokk/ignition/internal/policy"
	"github.com/padlokk/ignition/internal/recipients"
	"github.com/padlokk/ignition/internal/vault"
)

var (
	home    string
	verbose bool

	chain *authority.Chain
)

// Execute builds the root command and runs it. A single PersistentPreRunE
// opens the vault, loads policy, and wires an authority.Chain once per
// invocation.
func Execute() error {
	root := &cobra.Command{
		Use:   "ignitectl",
		Short: "Authority chain management for Ignite vaults",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				home = vault.ResolveRoot(os.Getenv)
			}
			store, err := vault.Open(home)
			if err != nil {
				return err
			}

			raw, err := store.LoadPolicyFile()
			if err != nil {
				return err
			}
			cfg, err := policy.LoadConfig(raw)
			if err != nil {
				return err
			}

			log := obs.New()
			if verbose {
				log = obs.NewDevelopment()
			}

			chain = authority.New(store, cfg, recipients.New(), log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "vault root directory (default $XDG_DATA_HOME/ignition)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable development-mode logging")

	root.AddCommand(
		bootstrapCmd(),
		createCmd(),
		rotateCmd(),
		revokeCmd(),
		verifyCmd(),
		listCmd(),
		statusCmd(),
		fingerprintCmd(),
	)
	return root.Execute()
}
