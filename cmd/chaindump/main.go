// Command chaindump inspects a chain store: the persisted head and the
// full item listing.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshvine/chainstate"
	"github.com/meshvine/chainstate/seqdb"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rootCmd := &cobra.Command{
		Use:           "chaindump",
		Short:         "Inspect a chain store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	headCmd := &cobra.Command{
		Use:   "head <db-path>",
		Short: "Print the persisted chain head and the next sequence index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(logger, args[0], func(snap *seqdb.Snap) error {
				buf, err := chainstate.New(snap)
				if err != nil {
					return err
				}
				if head := buf.ChainHead(); head != nil {
					fmt.Printf("head: %s\n", head)
				} else {
					fmt.Println("head: none")
				}
				fmt.Printf("next index: %d\n", buf.NextIndex())
				fmt.Printf("next generation: %d\n", buf.Generation())
				return nil
			})
		},
	}
	rootCmd.AddCommand(headCmd)

	itemsCmd := &cobra.Command{
		Use:   "items <db-path>",
		Short: "List every persisted item in sequence order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(logger, args[0], func(snap *seqdb.Snap) error {
				return chainstate.Walk(snap, func(item chainstate.LogItem) error {
					published := " "
					if item.TransformsComplete {
						published = "*"
					}
					fmt.Printf("%6d  gen %4d  %s %s\n", item.Index, item.Generation, item.Header, published)
					return nil
				})
			})
		},
	}
	rootCmd.AddCommand(itemsCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("chaindump failed", "err", err)
		os.Exit(1)
	}
}

func withStore(logger *slog.Logger, path string, f func(snap *seqdb.Snap) error) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("chain store %s: %w", path, err)
	}
	db, err := seqdb.Open(path, seqdb.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer db.Close()
	return db.ReadErr(f)
}
