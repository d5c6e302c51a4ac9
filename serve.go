package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"

	"github.com/pivolan/carbon_analyzer/config"
	"github.com/pivolan/carbon_analyzer/dataset"
	"github.com/pivolan/carbon_analyzer/filter"
	"github.com/pivolan/carbon_analyzer/report"
)

const (
	maxUploadBytes = 256 << 20
	uploadTTL      = 2 * time.Hour
	sweepInterval  = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := settings()
		if err != nil {
			return err
		}
		in, err := loadInputs(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		return newServer(cfg, in).run(cmd.Context())
	},
}

type session struct {
	in      *inputs
	created time.Time
}

type server struct {
	cfg  *config.Config
	base *inputs

	mu       sync.RWMutex
	sessions map[string]session
}

func newServer(cfg *config.Config, base *inputs) *server {
	return &server{cfg: cfg, base: base, sessions: map[string]session{}}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleDashboard).Methods("GET")
	r.HandleFunc("/api/kpis", s.handleKPIs).Methods("GET")
	r.HandleFunc("/api/countries", s.handleCountries).Methods("GET")
	r.HandleFunc("/api/records", s.handleRecords).Methods("GET")
	r.HandleFunc("/api/sites", s.handleSites).Methods("GET")
	r.HandleFunc("/geo.json", s.handleGeo).Methods("GET")
	r.HandleFunc("/upload", s.handleUploadForm).Methods("GET")
	r.HandleFunc("/upload", s.handleUpload).Methods("POST")
	return r
}

func (s *server) run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           handlers.LoggingHandler(os.Stdout, s.router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	return httpSrv.Shutdown(shutdownCtx)
}

// inputsFor resolves ?id= to an uploaded dataset; no id means the base one.
func (s *server) inputsFor(r *http.Request) (*inputs, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return s.base, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", id)
	}
	return sess.in, nil
}

func queryFromRequest(r *http.Request) viewQuery {
	q := r.URL.Query()
	return viewQuery{
		Green:          q.Get("green"),
		SiteMode:       q.Get("site_mode"),
		Sites:          q["site"],
		Metric:         q.Get("metric"),
		Mode:           q.Get("mode"),
		Country:        q.Get("country"),
		ScatterCountry: q.Get("scatter_country"),
		Radar:          q["radar"],
		RadarPick:      q.Get("radar_pick"),
	}
}

// viewFor builds the view for a request, writing the error response itself
// when it cannot.
func (s *server) viewFor(w http.ResponseWriter, r *http.Request) (view, viewParams, bool) {
	in, err := s.inputsFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return view{}, viewParams{}, false
	}
	p, err := queryFromRequest(r).parse(s.cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return view{}, viewParams{}, false
	}
	return buildView(in, p), p, true
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, p, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderDashboard(w, v.dashboard(dashboardTitle, p)); err != nil {
		slog.Error("render dashboard", "error", err)
	}
}

func (s *server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	v, _, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, v.KPIs)
}

type countriesResponse struct {
	Metric    string      `json:"metric"`
	Mode      string      `json:"mode"`
	Countries interface{} `json:"countries"`
	Unmatched []string    `json:"unmatched,omitempty"`
}

func (s *server) handleCountries(w http.ResponseWriter, r *http.Request) {
	v, p, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, countriesResponse{
		Metric:    p.Metric.Key,
		Mode:      string(p.Mode),
		Countries: report.SortedAggregates(v.Countries),
		Unmatched: v.Unmatched,
	})
}

func (s *server) handleRecords(w http.ResponseWriter, r *http.Request) {
	v, _, ok := s.viewFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, v.Filtered)
}

func (s *server) handleSites(w http.ResponseWriter, r *http.Request) {
	in, err := s.inputsFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sites := filter.Sites(in.Records)
	if sites == nil {
		sites = []string{}
	}
	writeJSON(w, sites)
}

func (s *server) handleGeo(w http.ResponseWriter, _ *http.Request) {
	if s.base.Geo == nil {
		http.Error(w, "world reference not loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(s.base.Geo.Raw)
}

var uploadForm = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Upload a dataset</title></head>
<body>
<form action="/upload" method="post" enctype="multipart/form-data">
<p>CSV file, optionally gzip, lz4 or zip archived.</p>
<input type="file" name="file">
<input type="submit" value="Upload">
</form>
{{if .}}<p>Current dataset: <a href="/?id={{.}}">{{.}}</a></p>{{end}}
</body></html>`))

func (s *server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadForm.Execute(w, r.URL.Query().Get("id")); err != nil {
		http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
	}
}

type uploadResponse struct {
	ID      string `json:"id"`
	Records int    `json:"records"`
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	id := uuid.NewV4().String()
	dir := filepath.Join(s.cfg.UploadDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	filePath := filepath.Join(dir, name)
	if err := saveUpload(filePath, file); err != nil {
		slog.Error("save upload", "path", filePath, "error", err)
		discardUpload(dir)
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	records, err := dataset.Load(r.Context(), dataset.CSVSource{Path: filePath, Separator: s.cfg.CSVSeparator})
	if err != nil {
		discardUpload(dir)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	in := &inputs{Name: header.Filename, Records: records, Geo: s.base.Geo}
	s.mu.Lock()
	s.sessions[id] = session{in: in, created: time.Now()}
	s.mu.Unlock()

	slog.Info("dataset uploaded", "id", id, "file", header.Filename, "records", len(records))
	writeJSONStatus(w, http.StatusCreated, uploadResponse{ID: id, Records: len(records)})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func discardUpload(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("removing rejected upload", "dir", dir, "error", err)
	}
}

// sweep drops expired upload sessions and their files until ctx ends.
func (s *server) sweep(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.expire(now.Add(-uploadTTL))
		}
	}
}

func (s *server) expire(before time.Time) {
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.created.Before(before) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	if err := removeOldFiles(s.cfg.UploadDir, before); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("cleaning uploads", "error", err)
	}
}

// removeOldFiles deletes files under dirPath last modified before maxAge,
// then any directory left empty.
func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			if err := removeOldFiles(filePath, maxAge); err != nil {
				return err
			}
			if rest, err := os.ReadDir(filePath); err == nil && len(rest) == 0 {
				os.Remove(filePath)
			}
			continue
		}
		info, err := file.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil {
				return err
			}
			slog.Debug("removed upload", "path", filePath)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
