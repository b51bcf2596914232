package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the chain: per-role counts, expirations, stale proofs, tombstones",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := chain.Status()
			if err != nil {
				return err
			}
			for role, count := range health.Counts {
				fmt.Printf("%-8s %d\n", role, count)
			}
			fmt.Printf("expiring soon:    %d\n", len(health.ExpiringSoon))
			fmt.Printf("stale proofs:     %d\n", len(health.StaleProofs))
			fmt.Printf("pending tombstones: %d\n", health.PendingTombstones)
			return nil
		},
	}
}
