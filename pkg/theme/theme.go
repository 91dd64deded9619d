// Package theme describes the active presentation theme and publishes
// the asset libraries a page needs.
package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Theme is the active presentation theme.
type Theme struct {
	Name      string
	Libraries []string
}

// ActiveLibraries returns the libraries the theme includes on every page.
func (t *Theme) ActiveLibraries() []string {
	return t.Libraries
}

// ParseLibraries splits a comma separated list of library names.
func ParseLibraries(s string) []string {
	libs := []string{}
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			libs = append(libs, l)
		}
	}
	return libs
}

// Library is a named set of stylesheets and scripts. Local files are
// relative to the library directory; absolute URLs are left alone.
type Library struct {
	CSS          []string
	JS           []string
	Dependencies []string
}

// Registry maps library names to their definitions. Local files live
// under Dir/<library name>.
type Registry struct {
	Dir       string
	Libraries map[string]Library
}

// Gallery libraries shipped with bsgallery.
var Gallery = map[string]Library{
	"bootstrap_basic_image_gallery/bootstrap_basic": {
		CSS: []string{"css/bootstrap_basic.css"},
	},
	"bootstrap_basic_image_gallery/hover_preview": {
		JS:           []string{"js/hover_preview.js"},
		Dependencies: []string{"core/jquery"},
	},
	"bootstrap_basic_image_gallery/lazyload": {
		JS:           []string{"js/lazyload.js"},
		Dependencies: []string{"core/jquery"},
	},
	"bootstrap_basic_image_gallery/bootstrap_components": {
		CSS:          []string{"https://cdn.jsdelivr.net/npm/bootstrap@3.4.1/dist/css/bootstrap.min.css"},
		JS:           []string{"https://cdn.jsdelivr.net/npm/bootstrap@3.4.1/dist/js/bootstrap.min.js"},
		Dependencies: []string{"core/jquery"},
	},
	"core/jquery": {
		JS: []string{"https://code.jquery.com/jquery-3.7.1.min.js"},
	},
}

// Assets are the stylesheet and script URLs of a page, in load order.
type Assets struct {
	CSS []string
	JS  []string
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "//")
}

// order returns the named libraries preceded by their dependencies.
func (r *Registry) order(names []string) ([]string, error) {
	out := []string{}
	done := map[string]bool{}

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		if done[name] {
			return nil
		}
		for _, s := range stack {
			if s == name {
				return fmt.Errorf("dependency cycle: %s -> %s", strings.Join(stack, " -> "), name)
			}
		}

		l, ok := r.Libraries[name]
		if !ok {
			return fmt.Errorf("unknown library %q", name)
		}
		for _, d := range l.Dependencies {
			if err := visit(d, append(stack, name)); err != nil {
				return err
			}
		}
		done[name] = true
		out = append(out, name)
		return nil
	}

	for _, n := range names {
		if err := visit(n, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Resolve returns the asset URLs of the named libraries and their
// dependencies. Local files are referenced below baseURL.
func (r *Registry) Resolve(names []string, baseURL string) (*Assets, error) {
	libs, err := r.order(names)
	if err != nil {
		return nil, err
	}

	a := &Assets{}
	for _, name := range libs {
		l := r.Libraries[name]
		for _, c := range l.CSS {
			a.CSS = append(a.CSS, r.url(name, c, baseURL))
		}
		for _, j := range l.JS {
			a.JS = append(a.JS, r.url(name, j, baseURL))
		}
	}
	return a, nil
}

func (r *Registry) url(name string, file string, baseURL string) string {
	if isURL(file) {
		return file
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + name + "/" + file
}

// Publish copies the local files of the named libraries and their
// dependencies into outDir.
func (r *Registry) Publish(names []string, outDir string) error {
	libs, err := r.order(names)
	if err != nil {
		return err
	}

	for _, name := range libs {
		l := r.Libraries[name]
		for _, f := range append(append([]string{}, l.CSS...), l.JS...) {
			if isURL(f) {
				continue
			}
			src := filepath.Join(r.Dir, filepath.FromSlash(name), filepath.FromSlash(f))
			dest := filepath.Join(outDir, filepath.FromSlash(name), filepath.FromSlash(f))
			klog.V(1).Infof("copying %s to %s", src, dest)
			if err := copy.Copy(src, dest); err != nil {
				return fmt.Errorf("copy %s: %w", name, err)
			}
		}
	}
	return nil
}
