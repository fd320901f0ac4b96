// Package server exposes a control point session and its reservoir model
// over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	reservoir "github.com/flywave/go-reservoir"
	"github.com/flywave/go-reservoir/export"
	"github.com/flywave/go-reservoir/ingest"
)

const DefaultMaxUpload = 32 << 20

type Config struct {
	// Options are the interpolation defaults; query parameters override
	// the grid size and method per request.
	Options   reservoir.Options
	MaxUpload int64
	Log       logrus.FieldLogger
}

// Server holds one point store shared by all requests.
type Server struct {
	mu    sync.Mutex
	store *reservoir.Store

	cfg    Config
	log    logrus.FieldLogger
	router chi.Router
}

func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	if cfg.Options.Log == nil {
		cfg.Options.Log = cfg.Log
	}
	s := &Server{
		store: reservoir.NewStore(),
		cfg:   cfg,
		log:   cfg.Log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/points", func(pr chi.Router) {
		pr.Get("/", s.listPoints)
		pr.Post("/", s.addPoint)
		pr.Delete("/", s.resetPoints)
		pr.Post("/bulk", s.bulkPoints)
		pr.Post("/upload", s.uploadPoints)
		pr.Post("/demo", s.demoPoints)
	})
	r.Get("/model", s.model)
	r.Route("/export", func(er chi.Router) {
		er.Get("/grid.csv", s.exportGrid)
		er.Get("/stats.csv", s.exportStats)
		er.Get("/report.txt", s.exportReport)
		er.Get("/report.pdf", s.exportPDF)
		er.Get("/map.png", s.exportMap)
		er.Get("/section.png", s.exportSection)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store runs fn with exclusive access to the point store.
func (s *Server) Store(fn func(*reservoir.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

func (s *Server) snapshot() []reservoir.ControlPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Points()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

type pointsResponse struct {
	Count  int                      `json:"count"`
	Points []reservoir.ControlPoint `json:"points"`
}

func (s *Server) writePoints(w http.ResponseWriter, status int) {
	pts := s.snapshot()
	writeJSON(w, status, pointsResponse{Count: len(pts), Points: pts})
}

func (s *Server) listPoints(w http.ResponseWriter, r *http.Request) {
	s.writePoints(w, http.StatusOK)
}

func decode(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest{fmt.Errorf("decoding request body: %v", err)}
	}
	return nil
}

func (s *Server) addPoint(w http.ResponseWriter, r *http.Request) {
	var p reservoir.ControlPoint
	if err := decode(r.Body, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store(func(st *reservoir.Store) error { return st.Add(p) }); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePoints(w, http.StatusCreated)
}

func (s *Server) bulkPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points []reservoir.ControlPoint `json:"points"`
	}
	if err := decode(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store(func(st *reservoir.Store) error { return st.BulkLoad(req.Points) }); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePoints(w, http.StatusCreated)
}

func (s *Server) uploadPoints(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest{fmt.Errorf("reading upload: %v", err)})
		return
	}
	defer file.Close()

	pts, err := ingest.Read(header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store(func(st *reservoir.Store) error { return st.BulkLoad(pts) }); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"request_id": requestID(r.Context()),
		"file":       header.Filename,
		"points":     len(pts),
	}).Info("points uploaded")
	s.writePoints(w, http.StatusCreated)
}

func (s *Server) resetPoints(w http.ResponseWriter, r *http.Request) {
	err := s.Store(func(st *reservoir.Store) error {
		st.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePoints(w, http.StatusOK)
}

// demoPoints replaces the points with the demo dataset, or with a
// synthetic one when the wells parameter is given.
func (s *Server) demoPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var synth reservoir.SyntheticConfig
	if v := q.Get("wells"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			s.writeError(w, r, badRequest{fmt.Errorf("parameter wells: invalid value %q", v)})
			return
		}
		synth.Wells = n
		synth.Seed = 1
	}
	if v := q.Get("seed"); v != "" {
		seed, err := cast.ToInt64E(v)
		if err != nil {
			s.writeError(w, r, badRequest{fmt.Errorf("parameter seed: %v", err)})
			return
		}
		synth.Seed = seed
	}
	err := s.Store(func(st *reservoir.Store) error {
		if synth.Wells == 0 {
			st.LoadDemo()
			return nil
		}
		st.Reset()
		return st.BulkLoad(reservoir.Synthetic(synth))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePoints(w, http.StatusOK)
}

// evaluate builds the model for the current points using the query
// parameters goc, woc, nx, ny, method and cell. Contacts default to 30% and 70%
// of the depth range.
func (s *Server) evaluate(r *http.Request) (*reservoir.Model, error) {
	q := r.URL.Query()
	opts := s.cfg.Options
	for _, p := range []struct {
		name string
		dst  *int
	}{{"nx", &opts.Nx}, {"ny", &opts.Ny}} {
		if v := q.Get(p.name); v != "" {
			n, err := cast.ToIntE(v)
			if err != nil {
				return nil, badRequest{fmt.Errorf("parameter %s: %v", p.name, err)}
			}
			if n < 2 {
				return nil, reservoir.ErrInvalidResolution
			}
			*p.dst = n
		}
	}
	if v := q.Get("method"); v != "" {
		m, err := reservoir.ParseMethod(v)
		if err != nil {
			return nil, err
		}
		opts.Method = m
	}
	if v := q.Get("cell"); v != "" {
		opts.Cell = v
	}

	pts := s.snapshot()
	contacts := reservoir.DefaultContacts(reservoir.Describe(pts))
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"goc", &contacts.GOC}, {"woc", &contacts.WOC}} {
		if v := q.Get(p.name); v != "" {
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, badRequest{fmt.Errorf("parameter %s: %v", p.name, err)}
			}
			*p.dst = f
		}
	}
	return reservoir.Evaluate(pts, contacts, opts)
}

type surfaceInfo struct {
	Method   reservoir.Method `json:"method"`
	Fallback bool             `json:"fallback"`
	Nx       int              `json:"nx"`
	Ny       int              `json:"ny"`
	Defined  int              `json:"defined"`
	CellArea float64          `json:"cellArea"`
	DepthMin float64          `json:"depthMin"`
	DepthMax float64          `json:"depthMax"`
}

type modelResponse struct {
	*reservoir.Model
	Surface *surfaceInfo `json:"surface,omitempty"`
}

func (s *Server) model(w http.ResponseWriter, r *http.Request) {
	m, err := s.evaluate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := modelResponse{Model: m}
	if sf := m.Surface; sf != nil {
		lo, hi, _ := sf.DepthRange()
		resp.Surface = &surfaceInfo{
			Method:   sf.Method,
			Fallback: sf.FellBack(),
			Nx:       sf.Width,
			Ny:       sf.Height,
			Defined:  sf.DefinedCount(),
			CellArea: sf.CellArea(),
			DepthMin: lo,
			DepthMax: hi,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// download renders into a buffer first so that a failure still produces
// a JSON error instead of a truncated file.
func (s *Server) download(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(io.Writer, *reservoir.Model) error) {
	m, err := s.evaluate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, m); err != nil {
		if err == export.ErrNoSurface {
			err = badRequest{fmt.Errorf("%v: %d points loaded", err, len(m.Points))}
		}
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (s *Server) exportGrid(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "text/csv", "grid_data.csv", func(w io.Writer, m *reservoir.Model) error {
		return export.WriteGridCSV(w, m.Surface)
	})
}

func (s *Server) exportStats(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "text/csv", "summary_stats.csv", func(w io.Writer, m *reservoir.Model) error {
		return export.WriteStatsCSV(w, m.Stats)
	})
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "text/plain; charset=utf-8", "report.txt", func(w io.Writer, m *reservoir.Model) error {
		return export.WriteSummary(w, export.NewReport(m))
	})
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "application/pdf", "report.pdf", func(w io.Writer, m *reservoir.Model) error {
		charts, err := export.Charts(m)
		if err != nil {
			return err
		}
		return export.WritePDF(w, export.NewReport(m), charts)
	})
}

func (s *Server) exportMap(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "image/png", "", func(w io.Writer, m *reservoir.Model) error {
		return export.RenderStructureMap(w, m, 0, 0)
	})
}

func (s *Server) exportSection(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "image/png", "", func(w io.Writer, m *reservoir.Model) error {
		return export.RenderCrossSection(w, m, 0, 0)
	})
}
