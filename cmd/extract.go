package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/kpiscan/internal/catalog"
	"github.com/finsight/kpiscan/internal/extract"
	"github.com/finsight/kpiscan/internal/model"
	"github.com/finsight/kpiscan/internal/store"
)

var (
	extractSymbol  string
	extractDocType string
	extractDate    string
	extractPeriod  string
	extractYear    int
	extractNoStore bool
	extractJSONOut bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract KPIs from plain-text documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if extractSymbol == "" {
			return eris.New("--symbol is required")
		}

		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		var st store.Store
		if !extractNoStore {
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		results, err := processDocuments(ctx, extractor, st, args, cfg.Batch.MaxConcurrentDocuments)
		if err != nil {
			return err
		}

		if extractJSONOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return eris.Wrap(err, "encode results")
			}
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractSymbol, "symbol", "", "ticker symbol for the documents (required)")
	extractCmd.Flags().StringVar(&extractDocType, "doc-type", "earnings_release", "document type")
	extractCmd.Flags().StringVar(&extractDate, "date", "", "report date (ISO)")
	extractCmd.Flags().StringVar(&extractPeriod, "period", "", "fiscal period tag (e.g. Q3)")
	extractCmd.Flags().IntVar(&extractYear, "fiscal-year", 0, "fiscal year")
	extractCmd.Flags().BoolVar(&extractNoStore, "no-store", false, "skip persisting results")
	extractCmd.Flags().BoolVar(&extractJSONOut, "json", false, "print full results as JSON")
	rootCmd.AddCommand(extractCmd)
}

// newExtractor builds the engine from config: catalog overlay plus tunables.
func newExtractor() (*extract.Extractor, error) {
	cat, err := catalog.Load(cfg.Extraction.CatalogPath)
	if err != nil {
		return nil, err
	}
	return extract.New(cat, extract.Config{
		Tunables: extract.ScoreTunables{
			Base:           cfg.Extraction.BaseConfidence,
			ContextBoost:   cfg.Extraction.ContextBoost,
			ExcludePenalty: cfg.Extraction.ExcludePenalty,
			Min:            0.1,
			Max:            1.0,
		},
		DedupTolerance: cfg.Extraction.DedupTolerance,
	}), nil
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// processDocuments extracts each file concurrently with a bounded worker
// pool. Individual document failures are recorded on the result, not
// returned: one bad document never aborts the batch.
func processDocuments(ctx context.Context, extractor *extract.Extractor, st store.Store, paths []string, concurrency int) ([]*model.ExtractionResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("extracting documents",
		zap.Int("documents", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make([]*model.ExtractionResult, len(paths))
	var succeeded, failed, kpiCount atomic.Int64

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			log := zap.L().With(zap.String("document", path))

			text, err := os.ReadFile(path)
			if err != nil {
				failed.Add(1)
				log.Error("read document failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			result := extractor.Extract(string(text), model.DocumentMeta{
				Symbol:       extractSymbol,
				DocumentType: extractDocType,
				Source:       filepath.Base(path),
				ReportDate:   extractDate,
				FiscalPeriod: extractPeriod,
				FiscalYear:   extractYear,
			})
			results[i] = result

			if !result.Success {
				failed.Add(1)
				log.Warn("extraction failed", zap.Strings("errors", result.Errors))
			} else {
				succeeded.Add(1)
				kpiCount.Add(int64(len(result.ExtractedKPIs)))
				log.Info("extraction complete",
					zap.Int("kpis", len(result.ExtractedKPIs)),
					zap.Int("dropped_matches", result.DroppedMatches),
					zap.Float64("confidence", result.Confidence),
					zap.Int64("ms", result.ProcessingTime),
				)
			}

			if st != nil {
				if err := st.SaveResult(gctx, result); err != nil {
					log.Warn("persist result failed", zap.Error(err))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch extraction")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("kpis", kpiCount.Load()),
	)

	return results, nil
}
