// Package cli wires the cobra command tree for one-shot report generation.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"taxfiler/internal/app"
	"taxfiler/internal/logger"
)

// Version is set at build time using ldflags.
var Version = "1.0.0"

// New builds the root command. outputDir is the default directory for the
// generated files; the --out flag overrides it.
func New(svc app.Service, outputDir string) *cobra.Command {
	root := &cobra.Command{
		Use:           "taxfiler",
		Short:         "Generate Taiwanese business-tax (VAT) e-filing reports",
		Long: `taxfiler produces the two government-mandated e-filing outputs for a
client's confirmed filing period: the 81-byte fixed-width TXT invoice ledger
and the 112-field TET_U declaration summary, plus an XLSX review workbook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(svc, outputDir))
	root.AddCommand(newVersionCmd())
	return root
}

func newGenerateCmd(svc app.Service, outputDir string) *cobra.Command {
	var taxID, period, out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the TXT ledger and TET_U declaration for one period",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("cli")
			if out == "" {
				out = outputDir
			}

			result, err := svc.GenerateReport(cmd.Context(), app.GenerateReportRequest{
				TaxID:     taxID,
				YearMonth: period,
			})
			if err != nil {
				return err
			}
			saved, err := svc.SaveReportFiles(result, out)
			if err != nil {
				return err
			}

			log.Info().
				Str("txt", saved.TxtPath).
				Str("tetu", saved.TetUPath).
				Str("workbook", saved.WorkbookPath).
				Msg("report files written")
			printSummary(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&taxID, "tax-id", "", "client 8-digit tax ID (required)")
	cmd.Flags().StringVar(&period, "period", "", "ROC year-month, e.g. 11409 (required)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to OUTPUT_DIR)")
	_ = cmd.MarkFlagRequired("tax-id")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taxfiler %s (%s)\n", Version, runtime.Version())
		},
	}
}

func printSummary(result *app.GenerateReportResult) {
	out := result.Totals.Output
	in := result.Totals.Input

	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  FILING SUMMARY — %s, period %s\n", result.Client.TaxID, result.Period.YearMonth)
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-36s %12s %10s\n", "", "SALES", "TAX")
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-36s %12d %10d\n", "Triplicate", out.Triplicate.Sales, out.Triplicate.Tax)
	fmt.Printf("  %-36s %12d %10d\n", "Cash register / electronic", out.CashRegisterElectronic.Sales, out.CashRegisterElectronic.Tax)
	fmt.Printf("  %-36s %12d %10d\n", "Duplicate cash register", out.DuplicateCashRegister.Sales, out.DuplicateCashRegister.Tax)
	fmt.Printf("  %-36s %12d %10d\n", "Exempt from issuance", out.ExemptFromIssuance.Sales, out.ExemptFromIssuance.Tax)
	fmt.Printf("  %-36s %12d %10d\n", "Returns and allowances", out.ReturnsAndAllowances.Sales, out.ReturnsAndAllowances.Tax)
	fmt.Printf("  %-36s %12d %10d\n", "TOTAL OUTPUT", out.TotalSales, out.TotalTax)
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-36s %12d %10d\n", "TOTAL INPUT (deductible)", in.TotalPurchases, in.TotalTax)
	fmt.Printf("  %-36s %12d\n", "All input amounts", in.AllInputAmounts)
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  Ledger rows: %d (fillers: %d), output invoices: %d\n",
		result.RowCount, result.FillerCount, out.InvoiceCount)
	fmt.Println(strings.Repeat("=", 62))
}

// Execute runs the root command and exits non-zero on failure.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		log := logger.WithComponent("cli")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
