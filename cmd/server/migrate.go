package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

// migrate creates Postgres tables or Mongo indexes for the configured
// driver and exits.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()

		logger.Info("migration complete", "store", cfg.StoreDriver)
		fmt.Println("✅ schema ready for", cfg.StoreDriver)
		return nil
	},
}
