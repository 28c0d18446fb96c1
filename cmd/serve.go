package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/prospect"
	"github.com/sells-group/prospect-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for prospecting searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Attom.Key == "" {
			return eris.New("ATTOM API key is required (PROSPECT_ATTOM_KEY)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		mux := buildMux(st, newScanner())

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildMux wires the HTTP routes over the store and scanner.
func buildMux(st store.Store, scanner *prospect.Scanner) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req prospect.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if !req.Mode.Valid() {
			http.Error(w, `{"error":"unknown mode"}`, http.StatusBadRequest)
			return
		}

		run, err := st.CreateScanRun(r.Context(), req.Mode, req.Params)
		if err != nil {
			zap.L().Error("create scan run failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		res, err := scanner.Search(r.Context(), req)
		if err != nil {
			if ferr := st.FailScanRun(r.Context(), run.ID, err.Error()); ferr != nil {
				zap.L().Warn("record scan failure", zap.Error(ferr))
			}
			zap.L().Error("search failed",
				zap.String("mode", string(req.Mode)),
				zap.Error(err),
			)
			http.Error(w, `{"error":"search failed"}`, http.StatusBadGateway)
			return
		}

		if err := st.CompleteScanRun(r.Context(), run.ID, store.RunOutcome{
			RecordCount: len(res.Records),
			GroupCount:  len(res.Groups),
			Coverage:    &res.Coverage,
			Summary:     res.Summary,
		}); err != nil {
			zap.L().Warn("record scan completion", zap.Error(err))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(struct {
			RunID string `json:"run_id"`
			*prospect.SearchResult
		}{RunID: run.ID, SearchResult: res})
	})

	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListScanRuns(r.Context(), store.RunFilter{
			PostalCode: r.URL.Query().Get("zip"),
		})
		if err != nil {
			zap.L().Error("list scan runs failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(runs)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
