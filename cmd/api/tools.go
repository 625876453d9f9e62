package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpadp "ncr-quality-backend/internal/adapter/http"
	"ncr-quality-backend/internal/infrastructure/export"
	"ncr-quality-backend/internal/usecase/session"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		a.log.Info("schema up to date")
		_ = a.log.Sync()
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash-passphrase <passphrase>",
	Short: "Print the bcrypt hash to put in PASSPHRASE_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := session.HashPassphrase(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), h)
		return err
	},
}

var (
	exportQuery string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the entry list to an xlsx workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		uc, _, _ := a.ncrUsecase(nil)
		data, err := httpadp.WorkbookBytes(cmd.Context(), uc, exportQuery)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = export.FileName(time.Now())
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "only entries whose customer, model or defect matches")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: dated name in the working directory)")
}
