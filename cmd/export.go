package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsight/kpiscan/internal/model"
	"github.com/finsight/kpiscan/internal/report"
	"github.com/finsight/kpiscan/internal/store"
)

var (
	exportSymbol string
	exportType   string
	exportOut    string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored KPIs to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		kpis, err := st.ListKPIs(ctx, store.KPIFilter{
			Symbol:  exportSymbol,
			KPIType: model.KPIType(exportType),
			Limit:   exportLimit,
		})
		if err != nil {
			return err
		}
		if len(kpis) == 0 {
			return eris.New("no KPIs matched the export filters")
		}

		if err := report.WriteXLSX(kpis, exportOut); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("kpis", len(kpis)),
			zap.String("path", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSymbol, "symbol", "", "filter by ticker symbol")
	exportCmd.Flags().StringVar(&exportType, "type", "", "filter by KPI type")
	exportCmd.Flags().StringVar(&exportOut, "out", "kpis.xlsx", "output workbook path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum rows to export")
	rootCmd.AddCommand(exportCmd)
}
