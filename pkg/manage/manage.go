// Package manage provides HTTP handlers for previewing and editing the
// display settings of a gallery.
package manage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/gallery"
)

// RenderFunc renders a gallery page with the given settings.
type RenderFunc func(gallery.Settings) ([]byte, error)

// Server is a server for editing gallery settings.
type Server struct {
	styles gallery.StyleLister
	render RenderFunc

	mu       sync.Mutex
	settings gallery.Settings
}

// New creates a new server.
func New(s gallery.Settings, styles gallery.StyleLister, render RenderFunc) *Server {
	server := &Server{
		styles:   styles,
		render:   render,
		settings: s,
	}
	return server
}

// Settings returns the current settings.
func (s *Server) Settings() gallery.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SummaryHandler lists the current settings, one per line.
func (s *Server) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, strings.Join(gallery.Summarize(s.Settings()), "\n"))
	}
}

// FormHandler serves the settings form description as JSON on GET, and
// applies submitted settings on POST.
func (s *Server) FormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(gallery.SettingsForm(s.Settings(), s.styles)); err != nil {
				klog.Errorf("encode form: %v", err)
			}
		case http.MethodPost:
			s.update(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	values := map[string]string{}
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}

	ns, err := gallery.ParseSettings(values, s.styles)
	var ve *gallery.ValidationError
	if errors.As(err, &ve) {
		http.Error(w, ve.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.settings = ns
	s.mu.Unlock()

	klog.Infof("settings updated: %s", strings.Join(gallery.Summarize(ns), ", "))
	http.Redirect(w, r, "/settings/summary", http.StatusSeeOther)
}

// PreviewHandler renders the gallery with the current settings.
func (s *Server) PreviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		bs, err := s.render(s.Settings())
		if err != nil {
			klog.Errorf("preview: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(bs); err != nil {
			klog.Warningf("write preview: %v", err)
		}
	}
}

// Register installs the handlers on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("/settings", s.FormHandler())
	mux.Handle("/settings/summary", s.SummaryHandler())
	mux.Handle("/preview", s.PreviewHandler())
}
