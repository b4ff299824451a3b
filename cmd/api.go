package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/fetcher"
	"github.com/sells-group/campaign-cli/internal/leadtable"
	"github.com/sells-group/campaign-cli/internal/metrics"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/pipeline"
	"github.com/sells-group/campaign-cli/internal/store"
)

const (
	indexHTML     = "<h1>Sales Campaign CRM API</h1><p>Open the React app at <a href='http://localhost:3000'>http://localhost:3000</a></p>"
	uploadMessage = "Leads CSV uploaded. Click Run Campaign."
	maxUploadSize = 32 << 20
)

// campaignRunner triggers one campaign run.
type campaignRunner interface {
	Run(ctx context.Context) (*model.RunSummary, error)
}

// api serves the HTTP surface used by the web UI.
type api struct {
	cfg     *config.Config
	runner  campaignRunner
	store   store.Store
	metrics *metrics.Manager
	opener  *fetcher.Opener
}

// runDetail is a stored run with its per-lead results.
type runDetail struct {
	Run   *model.Run         `json:"run" yaml:"run"`
	Leads []model.LeadResult `json:"leads" yaml:"leads"`
}

func newAPI(c *config.Config, runner campaignRunner, st store.Store, m *metrics.Manager) *api {
	return &api{
		cfg:     c,
		runner:  runner,
		store:   st,
		metrics: m,
		opener: fetcher.NewOpener(fetcher.Options{
			UserAgent: c.Fetch.UserAgent,
			Timeout:   time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		}),
	}
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.Server.CORSOrigin,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(a.observe)

	r.Get("/", a.handleIndex)
	r.Get("/health", a.handleHealth)
	r.Get("/api/leads", a.handleLeads)
	r.Post("/api/upload", a.handleUpload)
	r.Post("/run", a.handleRun)
	r.Get("/reports/summary", a.handleReport)
	r.Get("/api/runs", a.handleListRuns)
	r.Get("/api/runs/{id}", a.handleGetRun)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	filesDir := a.cfg.Server.FilesDir
	if filesDir == "" {
		filesDir = "data"
	}
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(filesDir))))

	return r
}

// observe records request metrics labelled by route pattern.
func (a *api) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.metrics.ObserveHTTP(r.Method, route, status, time.Since(start))
	})
}

func (a *api) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexHTML)
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLeads returns the enriched table when it exists, else the input table.
func (a *api) handleLeads(w http.ResponseWriter, r *http.Request) {
	source := ""
	for _, p := range []string{a.cfg.Leads.OutputPath, a.cfg.Leads.Path} {
		if localFileExists(p) {
			source = p
			break
		}
	}
	if source == "" {
		writeJSON(w, http.StatusOK, map[string]any{"leads": []map[string]string{}})
		return
	}

	table, err := leadtable.Load(r.Context(), a.opener, source, leadtable.LoadOptions{
		Sheet:    a.cfg.Leads.Sheet,
		Encoding: a.cfg.Leads.Encoding,
	})
	if err != nil {
		zap.L().Warn("api: read leads failed", zap.String("source", source), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": table.Records()})
}

// handleUpload replaces the lead list with the uploaded "file" part.
func (a *api) handleUpload(w http.ResponseWriter, r *http.Request) {
	target := a.cfg.Leads.Path
	if fetcher.IsRemote(target) {
		writeError(w, http.StatusConflict, "leads.path is a remote source")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	if err := saveUpload(target, file); err != nil {
		zap.L().Error("api: save upload failed", zap.String("path", target), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	zap.L().Info("api: leads uploaded", zap.String("path", target))
	writeJSON(w, http.StatusOK, map[string]string{"message": uploadMessage})
}

func saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "api: create upload dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "api: create upload file")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close() //nolint:errcheck
		return eris.Wrap(err, "api: write upload")
	}
	return eris.Wrap(f.Close(), "api: close upload")
}

func (a *api) handleRun(w http.ResponseWriter, r *http.Request) {
	// A dropped client does not abort a run half way through the table.
	summary, err := a.runner.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *api) handleReport(w http.ResponseWriter, _ *http.Request) {
	data, err := os.ReadFile(filepath.Join(a.cfg.Leads.ReportsDir, pipeline.ReportFile))
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (a *api) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{Status: model.RunStatus(q.Get("status"))}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	runs, err := a.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (a *api) handleGetRun(w http.ResponseWriter, r *http.Request) {
	detail, err := loadRunDetail(r.Context(), a.store, chi.URLParam(r, "id"))
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func loadRunDetail(ctx context.Context, st store.Store, id string) (*runDetail, error) {
	run, err := st.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	leads, err := st.ListLeadResults(ctx, id)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []model.LeadResult{}
	}
	return &runDetail{Run: run, Leads: leads}, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func localFileExists(path string) bool {
	if path == "" || fetcher.IsRemote(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
