package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/prospect"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

var scanFlags struct {
	zip           string
	lat           float64
	lon           float64
	radius        float64
	propertyType  string
	minYearsOwned int
	minValue      float64
	startSaleDate string
	endSaleDate   string
	exportPath    string
	snapshot      bool
	jsonOut       bool
}

var scanCmd = &cobra.Command{
	Use:   "scan <mode>",
	Short: "Run a prospecting scan",
	Long: `Runs one prospecting scan over an area and prints the classified results.

Modes:
  absentee  non-owner-occupied properties with a resolvable owner
  equity    long-tenure owners with positive equity
  distress  underwater, high-LTV, or value-decline signals
  justsold  recent sales for farming campaigns
  investor  multi-property ownership portfolios`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode := model.Mode(args[0])
		if !mode.Valid() {
			return eris.Errorf("unknown mode %q", args[0])
		}
		if cfg.Attom.Key == "" {
			return eris.New("ATTOM API key is required (PROSPECT_ATTOM_KEY)")
		}

		params := model.ScanParams{
			PostalCode:    scanFlags.zip,
			Latitude:      scanFlags.lat,
			Longitude:     scanFlags.lon,
			RadiusMiles:   scanFlags.radius,
			PropertyType:  scanFlags.propertyType,
			MinYearsOwned: scanFlags.minYearsOwned,
			MinValue:      scanFlags.minValue,
			StartSaleDate: scanFlags.startSaleDate,
			EndSaleDate:   scanFlags.endSaleDate,
		}
		if params.MinYearsOwned == 0 {
			params.MinYearsOwned = cfg.Equity.MinYearsOwned
		}
		if params.MinValue == 0 {
			params.MinValue = cfg.Equity.MinValue
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateScanRun(ctx, mode, params)
		if err != nil {
			return err
		}
		zap.L().Info("scan started",
			zap.String("run_id", run.ID),
			zap.String("mode", string(mode)),
			zap.String("zip", params.PostalCode),
		)

		scanner := newScanner()
		res, err := scanner.Search(ctx, prospect.SearchRequest{Mode: mode, Params: params})
		if err != nil {
			if ferr := st.FailScanRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("record scan failure", zap.Error(ferr))
			}
			return err
		}

		if err := st.CompleteScanRun(ctx, run.ID, store.RunOutcome{
			RecordCount: len(res.Records),
			GroupCount:  len(res.Groups),
			Coverage:    &res.Coverage,
			Summary:     res.Summary,
		}); err != nil {
			return err
		}

		if scanFlags.snapshot {
			if err := snapshotResults(ctx, st, res); err != nil {
				return err
			}
		}

		if scanFlags.exportPath != "" {
			if err := exportResults(res); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported to %s\n", scanFlags.exportPath)
		}

		if scanFlags.jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Fprintln(os.Stderr, res.Summary)
		printResults(os.Stdout, res)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanFlags.zip, "zip", "", "postal code to scan")
	scanCmd.Flags().Float64Var(&scanFlags.lat, "lat", 0, "latitude for radius search")
	scanCmd.Flags().Float64Var(&scanFlags.lon, "lon", 0, "longitude for radius search")
	scanCmd.Flags().Float64Var(&scanFlags.radius, "radius", 0, "radius in miles for coordinate search")
	scanCmd.Flags().StringVar(&scanFlags.propertyType, "property-type", "", "provider property type filter (e.g. SFR)")
	scanCmd.Flags().IntVar(&scanFlags.minYearsOwned, "min-years-owned", 0, "equity mode: minimum ownership tenure in years")
	scanCmd.Flags().Float64Var(&scanFlags.minValue, "min-value", 0, "equity mode: minimum property value")
	scanCmd.Flags().StringVar(&scanFlags.startSaleDate, "start-sale-date", "", "justsold mode: sale window start (YYYY-MM-DD)")
	scanCmd.Flags().StringVar(&scanFlags.endSaleDate, "end-sale-date", "", "justsold mode: sale window end (YYYY-MM-DD)")
	scanCmd.Flags().StringVar(&scanFlags.exportPath, "export", "", "write results to an XLSX file at this path")
	scanCmd.Flags().BoolVar(&scanFlags.snapshot, "snapshot", false, "retain merged records in the property snapshot table (postgres only)")
	scanCmd.Flags().BoolVar(&scanFlags.jsonOut, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(scanCmd)
}

// newScanner wires the provider client and page budgets from config.
func newScanner() *prospect.Scanner {
	client := attom.NewClient(cfg.Attom.Key,
		attom.WithBaseURL(cfg.Attom.BaseURL),
		attom.WithRateLimit(cfg.Attom.RequestsPerSec),
		attom.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Attom.TimeoutSecs) * time.Second,
		}),
	)
	return prospect.NewScanner(client,
		prospect.WithPageSize(cfg.Scan.PageSize),
		prospect.WithPageBudget(model.ModeAbsentee, cfg.Scan.PagesAbsentee),
		prospect.WithPageBudget(model.ModeEquity, cfg.Scan.PagesEquity),
		prospect.WithPageBudget(model.ModeDistress, cfg.Scan.PagesDistress),
		prospect.WithPageBudget(model.ModeJustSold, cfg.Scan.PagesJustSold),
		prospect.WithPageBudget(model.ModeInvestor, cfg.Scan.PagesInvestor),
	)
}

// snapshotResults upserts the result records into the property snapshot
// table when the backend supports it.
func snapshotResults(ctx context.Context, st store.Store, res *prospect.SearchResult) error {
	ss, ok := st.(store.SnapshotStore)
	if !ok {
		return eris.New("property snapshots require the postgres store")
	}

	records := res.Records
	for _, g := range res.Groups {
		records = append(records, g.Properties...)
	}

	n, err := ss.UpsertProperties(ctx, records)
	if err != nil {
		return err
	}
	zap.L().Info("property snapshots saved", zap.Int64("count", n))
	return nil
}

func exportResults(res *prospect.SearchResult) error {
	if res.Mode == model.ModeInvestor {
		return export.WriteGroups(scanFlags.exportPath, res.Groups)
	}
	return export.WriteRecords(scanFlags.exportPath, res.Records)
}

// printResults writes a compact table of the classified records or groups.
func printResults(out io.Writer, res *prospect.SearchResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if res.Mode == model.ModeInvestor {
		_, _ = fmt.Fprintln(w, "OWNER\tPROPS\tCORPORATE\tTOTAL VALUE\tTOTAL TAX\tMAILING")
		for _, g := range res.Groups {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%t\t%.0f\t%.0f\t%s\n",
				g.OwnerName, len(g.Properties), g.IsCorporate,
				g.TotalValue, g.TotalTaxBurden, g.MailingAddress)
		}
		_ = w.Flush()
		return
	}

	_, _ = fmt.Fprintln(w, "ADDRESS\tOWNER\tVALUE\tSALE AMT\tSALE DATE")
	for i := range res.Records {
		p := &res.Records[i]
		addr, _ := prospect.SitusAddress(p)
		name, _ := prospect.OwnerName(p)
		value, _ := prospect.PropertyValue(p)
		saleAmt, _ := prospect.SaleAmount(p)
		saleDate, _ := prospect.SaleDateString(p)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%s\n", addr, name, value, saleAmt, saleDate)
	}
	_ = w.Flush()
}
