// Package site builds a static page displaying a directory of images as
// a gallery field.
package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/files"
	"github.com/tstromberg/bsgallery/pkg/gallery"
	"github.com/tstromberg/bsgallery/pkg/imagestyle"
	"github.com/tstromberg/bsgallery/pkg/theme"
)

const (
	filesDir     = "files"
	librariesDir = "libraries"
)

// Config holds configuration for a site build.
type Config struct {
	InDir  string
	OutDir string
	Title  string
	Label  string

	Settings gallery.Settings
	Styles   []imagestyle.Style

	Theme      theme.Theme
	LibraryDir string
}

// Site is a collected set of images and the collaborators to render them.
type Site struct {
	c         *Config
	Items     []gallery.Item
	Styles    *imagestyle.Store
	Formatter *gallery.Formatter
	Libraries *theme.Registry
}

// Collect finds the images of the site.
func Collect(c *Config, mr files.MetaReader) (*Site, error) {
	klog.Infof("build: %s -> %s", c.InDir, c.OutDir)

	root := files.Root{Dir: c.InDir, BaseURL: filesDir}
	is, err := files.Find(root, mr)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	klog.Infof("found %d images in %s", len(is), c.InDir)

	ss, err := imagestyle.New(root, filepath.Join(c.OutDir, filesDir), c.Styles)
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}

	return &Site{
		c:         c,
		Items:     is,
		Styles:    ss,
		Formatter: gallery.New(ss, &c.Theme, gallery.WithFileURL(root.URL)),
		Libraries: &theme.Registry{Dir: c.LibraryDir, Libraries: theme.Gallery},
	}, nil
}

// Settings returns the configured display settings.
func (s *Site) Settings() gallery.Settings {
	return s.c.Settings
}

// Page renders the gallery page with the given settings, generating the
// derivatives its image styles reference.
func (s *Site) Page(st gallery.Settings) ([]byte, error) {
	if err := s.Styles.DeriveAll([]string{st.ImageStyle, st.ThumbnailImageStyle}, s.uris()); err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	_, bs, err := s.render(st)
	return bs, err
}

func (s *Site) uris() []string {
	uris := []string{}
	for _, i := range s.Items {
		uris = append(uris, i.File.URI)
	}
	return uris
}

func (s *Site) render(st gallery.Settings) (*gallery.ViewModel, []byte, error) {
	vm, err := s.Formatter.Render(gallery.NewUniqueIDs(), gallery.Field{Label: s.c.Label, Items: s.Items}, st)
	if err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}

	frag, err := gallery.HTML(vm)
	if err != nil {
		return nil, nil, fmt.Errorf("html: %w", err)
	}

	a := &theme.Assets{}
	if vm != nil {
		a, err = s.Libraries.Resolve(vm.Assets, librariesDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve: %w", err)
		}
	}

	bs, err := s.c.Theme.Page(s.c.Title, []template.HTML{frag}, a)
	if err != nil {
		return nil, nil, fmt.Errorf("page: %w", err)
	}
	return vm, bs, nil
}

// Write renders the page with the configured settings and writes it along
// with the images, derivatives and libraries it references.
func (s *Site) Write() error {
	st := s.c.Settings
	vm, bs, err := s.render(st)
	if err != nil {
		return err
	}

	uris := s.uris()
	for _, uri := range uris {
		if err := s.copyOriginal(uri); err != nil {
			return fmt.Errorf("copy original: %w", err)
		}
	}

	if err := s.Styles.DeriveAll([]string{st.ImageStyle, st.ThumbnailImageStyle}, uris); err != nil {
		return fmt.Errorf("derive: %w", err)
	}

	if vm != nil {
		if err := s.Libraries.Publish(vm.Assets, filepath.Join(s.c.OutDir, librariesDir)); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	if err := os.MkdirAll(s.c.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	p := filepath.Join(s.c.OutDir, "index.html")
	klog.Infof("Writing gallery to %s", p)
	return os.WriteFile(p, bs, 0o644)
}

// copyOriginal copies an image into the output files directory if it is
// missing or out of date.
func (s *Site) copyOriginal(uri string) error {
	_, target, err := files.Target(uri)
	if err != nil {
		return err
	}
	src := filepath.Join(s.c.InDir, filepath.FromSlash(target))
	dest := filepath.Join(s.c.OutDir, filesDir, filepath.FromSlash(target))

	sst, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	dst, err := os.Stat(dest)
	if err == nil && sst.Size() == dst.Size() && !sst.ModTime().After(dst.ModTime()) {
		return nil
	}

	klog.V(1).Infof("updating %s", dest)
	return copy.Copy(src, dest)
}
