// Package imagestyle resolves named image styles and generates the
// derivative images they describe.
package imagestyle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/files"
	"github.com/tstromberg/bsgallery/pkg/gallery"
)

// ErrNotFound is returned when loading an undefined style.
var ErrNotFound = errors.New("image style not found")

// Style scales images to fit within X by Y pixels. A zero X or Y is
// computed from the aspect ratio.
type Style struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	X       int    `json:"width"`
	Y       int    `json:"height"`
	Quality int    `json:"quality"`
}

// DefaultStyles are available when no styles are configured.
var DefaultStyles = []Style{
	{ID: "thumbnail", Label: "Thumbnail (100×100)", X: 100, Y: 100, Quality: 75},
	{ID: "medium", Label: "Medium (220×220)", X: 220, Y: 220, Quality: 85},
	{ID: "large", Label: "Large (480×480)", X: 480, Y: 480, Quality: 85},
	{ID: "wide", Label: "Wide (1090)", X: 1090, Quality: 85},
}

// LoadStyles reads style definitions from a JSON array.
func LoadStyles(p string) ([]Style, error) {
	bs, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	ss := []Style{}
	if err := json.Unmarshal(bs, &ss); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	return ss, nil
}

// Store holds the configured styles for a files root.
type Store struct {
	root   files.Root
	outDir string

	styles map[string]Style
	order  []string

	// mu serializes derivative generation.
	mu sync.Mutex
}

// New returns a store writing derivatives under outDir/styles, served
// from root.BaseURL/styles.
func New(root files.Root, outDir string, ss []Style) (*Store, error) {
	s := &Store{
		root:   root,
		outDir: outDir,
		styles: map[string]Style{},
	}

	for _, st := range ss {
		if st.ID == "" || path.Base(st.ID) != st.ID {
			return nil, fmt.Errorf("invalid style id %q", st.ID)
		}
		if _, ok := s.styles[st.ID]; ok {
			return nil, fmt.Errorf("duplicate style %q", st.ID)
		}
		if st.X < 0 || st.Y < 0 || (st.X == 0 && st.Y == 0) {
			return nil, fmt.Errorf("style %q: needs a positive width or height", st.ID)
		}
		if st.Quality == 0 {
			st.Quality = 85
		}
		s.styles[st.ID] = st
		s.order = append(s.order, st.ID)
	}

	return s, nil
}

// Load returns the style with the given id.
func (s *Store) Load(id string) (gallery.ImageStyle, error) {
	st, ok := s.styles[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return &Derivative{store: s, style: st}, nil
}

// StyleOptions lists the styles in configuration order.
func (s *Store) StyleOptions() []gallery.SelectOption {
	opts := []gallery.SelectOption{}
	for _, id := range s.order {
		opts = append(opts, gallery.SelectOption{Value: id, Label: s.styles[id].Label})
	}
	return opts
}

// Derivative is a style bound to a store.
type Derivative struct {
	store *Store
	style Style
}

// CacheTags invalidate rendered output when the style changes.
func (d *Derivative) CacheTags() []string {
	return []string{"config:image.style." + d.style.ID}
}

// relPath is the derivative location below the store output directory.
func (d *Derivative) relPath(uri string) (string, error) {
	scheme, target, err := files.Target(uri)
	if err != nil {
		return "", err
	}
	return path.Join("styles", d.style.ID, scheme, target), nil
}

// BuildURL returns the URL of the derivative of uri, or the URL of the
// original file when uri has no derivative.
func (d *Derivative) BuildURL(uri string) string {
	rel, err := d.relPath(uri)
	if err != nil {
		klog.Warningf("no derivative for %s: %v", uri, err)
		return d.store.root.URL(uri)
	}
	return files.JoinURL(d.store.root.BaseURL, rel)
}
