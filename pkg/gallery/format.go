package gallery

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"k8s.io/klog/v2"
)

// ImageStyle is a named transform producing derivative images.
type ImageStyle interface {
	CacheTags() []string
	BuildURL(uri string) string
}

// StyleResolver loads image styles by id.
type StyleResolver interface {
	Load(id string) (ImageStyle, error)
}

// ThemeInspector reports the asset libraries the active theme already includes.
type ThemeInspector interface {
	ActiveLibraries() []string
}

// Formatter renders image fields as galleries. It keeps no state between
// calls and is safe for concurrent use.
type Formatter struct {
	styles  StyleResolver
	theme   ThemeInspector
	fileURL func(uri string) string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithFileURL sets how a stored file URI maps to its public URL.
func WithFileURL(fn func(uri string) string) Option {
	return func(f *Formatter) {
		f.fileURL = fn
	}
}

// New returns a formatter using the given collaborators.
func New(styles StyleResolver, theme ThemeInspector, opts ...Option) *Formatter {
	f := &Formatter{
		styles:  styles,
		theme:   theme,
		fileURL: func(uri string) string { return uri },
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Render builds the view model for a field. It returns nil for a field
// without items. ids may be nil when only one gallery is on the page.
func (f *Formatter) Render(ids *UniqueIDs, field Field, s Settings) (*ViewModel, error) {
	if len(field.Items) == 0 {
		return nil, nil
	}
	if ids == nil {
		ids = NewUniqueIDs()
	}

	thumbStyle, err := f.load(s.ThumbnailImageStyle)
	if err != nil {
		return nil, fmt.Errorf("thumbnail style: %w", err)
	}

	mainStyle, err := f.load(s.ImageStyle)
	if err != nil {
		return nil, fmt.Errorf("main style: %w", err)
	}

	autoplay := "false"
	if s.CarouselAutorotate {
		autoplay = "carousel"
	}
	lazy := ""
	if s.Lazyload {
		lazy = "lazy"
	}

	vm := &ViewModel{
		Thumbnails: Thumbnails{
			Class:  thumbnailClass(s.ThumbnailsPerRow),
			Images: make([]*Image, 0, len(field.Items)),
		},
		Lazyload: lazy,
		Modal: Modal{
			ID:    ids.Get("bootstrap-basic-image-gallery-modal"),
			Label: field.Label,
		},
		Carousel: Carousel{
			ID:       ids.Get("bootstrap-basic-image-gallery-carousel"),
			Autoplay: autoplay,
			Images:   make([]*CarouselImage, 0, len(field.Items)),
		},
		Assets: assets(f.theme.ActiveLibraries(), s.Lazyload),
	}

	klog.V(1).Infof("rendering %q with %d items: %+v", field.Label, len(field.Items), s)

	for delta, it := range field.Items {
		original := f.fileURL(it.File.URI)

		attrs := maps.Clone(it.Attributes)
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs["data-mainsrc"] = f.styledURL(mainStyle, it.File.URI)

		if delta == 0 {
			vm.Main = &Image{
				Meta:       it.Meta,
				Attributes: maps.Clone(attrs),
				Style:      s.ImageStyle,
				Src:        f.styledURL(mainStyle, it.File.URI),
				CacheTags:  mergeTags(styleTags(mainStyle), it.File.CacheTags),
			}
		}

		vm.Thumbnails.Images = append(vm.Thumbnails.Images, &Image{
			Meta:       it.Meta,
			Attributes: attrs,
			Style:      s.ThumbnailImageStyle,
			Src:        f.styledURL(thumbStyle, it.File.URI),
			CacheTags:  mergeTags(styleTags(thumbStyle), it.File.CacheTags),
		})

		ci := &CarouselImage{
			Width:      it.Meta.Width,
			Height:     it.Meta.Height,
			Alt:        it.Meta.Alt,
			Title:      it.Meta.Title,
			Attributes: map[string]string{},
		}
		if s.Lazyload {
			ci.Attributes["data-src"] = original
		} else {
			ci.Src = original
		}
		vm.Carousel.Images = append(vm.Carousel.Images, ci)
	}

	return vm, nil
}

// load returns nil for an empty id, meaning the original image.
func (f *Formatter) load(id string) (ImageStyle, error) {
	if id == "" {
		return nil, nil
	}
	st, err := f.styles.Load(id)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", id, err)
	}
	return st, nil
}

func (f *Formatter) styledURL(st ImageStyle, uri string) string {
	if st == nil {
		return f.fileURL(uri)
	}
	return st.BuildURL(uri)
}

func styleTags(st ImageStyle) []string {
	if st == nil {
		return nil
	}
	return st.CacheTags()
}

// mergeTags returns the sorted union of the tag sets.
func mergeTags(sets ...[]string) []string {
	out := []string{}
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// thumbnailClass sizes thumbnails on a 10 column grid, rounding half up.
// Rows of more than 20 thumbnails yield bscol-0.
func thumbnailClass(perRow int) string {
	if perRow <= 0 {
		return ""
	}
	return "bscol-" + strconv.Itoa((20+perRow)/(2*perRow))
}
