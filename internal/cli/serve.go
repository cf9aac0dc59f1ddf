package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"daylist/internal/devserver"
	"daylist/internal/logs"
	"daylist/internal/tasks/data"
)

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory development API",
		Long: `Runs a throwaway task API in memory. Point the TUI at it with
--api http://localhost:8080/api. Nothing is persisted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			seed, _ := cmd.Flags().GetBool("seed")
			return fail(runServe(e, addr, seed))
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("seed", false, "start with a few demo tasks")
	return cmd
}

func runServe(e *env, addr string, seed bool) error {
	store := devserver.NewStore()
	if seed {
		store.Seed(data.DateOf(e.now()))
	}
	logs.Logger.Printf("Dev server listening on %s (seed=%v)", addr, seed)
	fmt.Fprintf(e.stdout, "Serving task API on %s/api\n", addr)
	return devserver.NewServer(store).Run(addr)
}
