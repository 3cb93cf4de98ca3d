// Package server previews a rendered post over http: the html fragment, the
// standalone charts, their PNG snapshots and the raw post resources.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"roomviz/internal/post"
	"roomviz/internal/raster"
	"roomviz/internal/source"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Result   *post.Result
	Fetcher  source.Fetcher
	Title    string
	PNGScale float64
	Origins  []string
	Logger   *log.Logger
}

func New(res *post.Result, f source.Fetcher, lg *log.Logger) *Server {
	return &Server{
		Result:   res,
		Fetcher:  f,
		PNGScale: 1,
		Origins:  []string{"*"},
		Logger:   lg,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if s.Logger != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  s.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}),
			NoColor: true,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", s.index)
	r.Get("/"+post.IndexFile, s.index)
	r.Get("/"+post.IndexJSONFile, s.highlightIndex)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/charts/{file}", s.chart)
	r.Get(source.Path+"{name}", s.resource)
	return r
}

// ListenAndServe serves until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logInfo("preview server listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sub, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sub); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	html, err := s.Result.Page(s.Title)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) highlightIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Result.HighlightIndex())
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	var (
		file = chi.URLParam(r, "file")
		ext  = path.Ext(file)
		docs = s.Result.Documents()
	)
	doc, ok := docs[strings.TrimSuffix(file, ext)+".svg"]
	if !ok {
		http.NotFound(w, r)
		return
	}
	doc = post.Standalone(doc)
	switch ext {
	case ".svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		doc.Render(w)
	case ".png":
		var buf bytes.Buffer
		if err := raster.Encode(&buf, doc, raster.Options{Scale: s.PNGScale}); err != nil {
			s.fail(w, r, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.Fetcher.Fetch(r.Context(), name)
	if errors.Is(err, source.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	if s.Logger != nil {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) logInfo(msg string, kv ...any) {
	if s.Logger != nil {
		s.Logger.Info(msg, kv...)
	}
}
