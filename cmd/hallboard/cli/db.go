package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the entry database",
		Long:  "Check connectivity to the configured entry database.",
	}

	cmd.AddCommand(newDBPingCmd())

	return cmd
}

func newDBPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBPing()
		},
	}

	return cmd
}

func runDBPing() error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	fmt.Printf("OK (driver=%s, latency=%s)\n", st.Driver(), time.Since(start).Round(time.Microsecond))
	return nil
}
