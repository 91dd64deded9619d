package gallery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errNoStyle = errors.New("no such style")

type fakeStyle struct {
	id   string
	tags []string
}

func (s *fakeStyle) CacheTags() []string { return s.tags }

func (s *fakeStyle) BuildURL(uri string) string {
	return fmt.Sprintf("/styles/%s/%s", s.id, uri)
}

type fakeStyles struct {
	loads int
}

func (f *fakeStyles) Load(id string) (ImageStyle, error) {
	f.loads++
	switch id {
	case "large", "thumbnail":
		return &fakeStyle{id: id, tags: []string{"config:image.style." + id}}, nil
	}
	return nil, errNoStyle
}

func (f *fakeStyles) StyleOptions() []SelectOption {
	return []SelectOption{{Value: "large", Label: "Large"}, {Value: "thumbnail", Label: "Thumbnail"}}
}

type fakeTheme []string

func (t fakeTheme) ActiveLibraries() []string { return t }

func intp(i int) *int { return &i }

func testItems(n int) []Item {
	is := []Item{}
	for i := 0; i < n; i++ {
		is = append(is, Item{
			File: File{
				URI:       fmt.Sprintf("public://img%d.jpg", i),
				CacheTags: []string{fmt.Sprintf("file:%d", i)},
			},
			Meta: Meta{
				Width:  intp(800),
				Height: intp(600),
				Alt:    fmt.Sprintf("alt %d", i),
				Title:  fmt.Sprintf("title %d", i),
			},
			Attributes: map[string]string{"sizes": "100vw"},
		})
	}
	return is
}

func styledSettings() Settings {
	s := DefaultSettings()
	s.ImageStyle = "large"
	s.ThumbnailImageStyle = "thumbnail"
	return s
}

func TestRenderEmpty(t *testing.T) {
	styles := &fakeStyles{}
	f := New(styles, fakeTheme{})

	for _, items := range [][]Item{nil, {}} {
		vm, err := f.Render(nil, Field{Label: "Photos", Items: items}, styledSettings())
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if vm != nil {
			t.Errorf("Render() = %+v, want nil", vm)
		}
	}
	if styles.loads != 0 {
		t.Errorf("loads = %d, want 0", styles.loads)
	}
}

func TestRenderSlots(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			styles := &fakeStyles{}
			f := New(styles, fakeTheme{})
			vm, err := f.Render(nil, Field{Label: "Photos", Items: testItems(n)}, styledSettings())
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}

			if len(vm.Thumbnails.Images) != n {
				t.Errorf("thumbnails = %d, want %d", len(vm.Thumbnails.Images), n)
			}
			if len(vm.Carousel.Images) != n {
				t.Errorf("carousel = %d, want %d", len(vm.Carousel.Images), n)
			}
			for i := 0; i < n; i++ {
				if got, want := vm.Thumbnails.Images[i].Meta.Alt, fmt.Sprintf("alt %d", i); got != want {
					t.Errorf("thumbnail %d alt = %q, want %q", i, got, want)
				}
				if got, want := vm.Carousel.Images[i].Title, fmt.Sprintf("title %d", i); got != want {
					t.Errorf("carousel %d title = %q, want %q", i, got, want)
				}
			}

			if vm.Main == nil {
				t.Fatalf("Main is nil")
			}
			if vm.Main.Src != "/styles/large/public://img0.jpg" {
				t.Errorf("Main.Src = %q", vm.Main.Src)
			}
			if vm.Main.Style != "large" {
				t.Errorf("Main.Style = %q, want large", vm.Main.Style)
			}
			if styles.loads != 2 {
				t.Errorf("loads = %d, want 2", styles.loads)
			}
		})
	}
}

func TestMainSrcPerThumbnail(t *testing.T) {
	f := New(&fakeStyles{}, fakeTheme{})
	vm, err := f.Render(nil, Field{Items: testItems(3)}, styledSettings())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for i, th := range vm.Thumbnails.Images {
		want := fmt.Sprintf("/styles/large/public://img%d.jpg", i)
		if got := th.Attributes["data-mainsrc"]; got != want {
			t.Errorf("thumbnail %d data-mainsrc = %q, want %q", i, got, want)
		}
		if got := th.Attributes["sizes"]; got != "100vw" {
			t.Errorf("thumbnail %d sizes = %q, want 100vw", i, got)
		}
		if got, want := th.Src, fmt.Sprintf("/styles/thumbnail/public://img%d.jpg", i); got != want {
			t.Errorf("thumbnail %d src = %q, want %q", i, got, want)
		}
	}
	if got := vm.Main.Attributes["data-mainsrc"]; got != "/styles/large/public://img0.jpg" {
		t.Errorf("main data-mainsrc = %q", got)
	}
}

func TestOriginalImage(t *testing.T) {
	styles := &fakeStyles{}
	f := New(styles, fakeTheme{}, WithFileURL(func(uri string) string {
		return "https://example.com/files/" + uri[len("public://"):]
	}))
	vm, err := f.Render(nil, Field{Items: testItems(2)}, DefaultSettings())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if styles.loads != 0 {
		t.Errorf("loads = %d, want 0", styles.loads)
	}
	if got := vm.Thumbnails.Images[1].Attributes["data-mainsrc"]; got != "https://example.com/files/img1.jpg" {
		t.Errorf("data-mainsrc = %q", got)
	}
	if diff := cmp.Diff([]string{"file:0"}, vm.Main.CacheTags); diff != "" {
		t.Errorf("main cache tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceAttributesUntouched(t *testing.T) {
	items := testItems(2)
	f := New(&fakeStyles{}, fakeTheme{})
	if _, err := f.Render(nil, Field{Items: items}, styledSettings()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for i, it := range items {
		if diff := cmp.Diff(map[string]string{"sizes": "100vw"}, it.Attributes); diff != "" {
			t.Errorf("item %d attributes changed (-want +got):\n%s", i, diff)
		}
	}
}

func TestLazyload(t *testing.T) {
	f := New(&fakeStyles{}, fakeTheme{})

	s := DefaultSettings()
	s.Lazyload = true
	vm, err := f.Render(nil, Field{Items: testItems(3)}, s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if vm.Lazyload != "lazy" {
		t.Errorf("Lazyload = %q, want lazy", vm.Lazyload)
	}
	for i, c := range vm.Carousel.Images {
		if c.Src != "" {
			t.Errorf("carousel %d has src %q", i, c.Src)
		}
		if got, want := c.Attributes["data-src"], fmt.Sprintf("public://img%d.jpg", i); got != want {
			t.Errorf("carousel %d data-src = %q, want %q", i, got, want)
		}
	}

	s.Lazyload = false
	vm, err = f.Render(nil, Field{Items: testItems(3)}, s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if vm.Lazyload != "" {
		t.Errorf("Lazyload = %q, want empty", vm.Lazyload)
	}
	for i, c := range vm.Carousel.Images {
		if _, ok := c.Attributes["data-src"]; ok {
			t.Errorf("carousel %d has data-src", i)
		}
		if got, want := c.Src, fmt.Sprintf("public://img%d.jpg", i); got != want {
			t.Errorf("carousel %d src = %q, want %q", i, got, want)
		}
	}
}

func TestThumbnailClass(t *testing.T) {
	tests := []struct {
		perRow int
		want   string
	}{
		{0, ""},
		{1, "bscol-10"},
		{2, "bscol-5"},
		{3, "bscol-3"},
		{4, "bscol-3"},
		{5, "bscol-2"},
		{6, "bscol-2"},
		{7, "bscol-1"},
		{20, "bscol-1"},
		{21, "bscol-0"},
	}
	for _, tc := range tests {
		if got := thumbnailClass(tc.perRow); got != tc.want {
			t.Errorf("thumbnailClass(%d) = %q, want %q", tc.perRow, got, tc.want)
		}
	}
}

func TestCacheTags(t *testing.T) {
	items := testItems(2)
	items[1].File.CacheTags = []string{"file:1", "config:image.style.thumbnail"}

	f := New(&fakeStyles{}, fakeTheme{})
	vm, err := f.Render(nil, Field{Items: items}, styledSettings())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if diff := cmp.Diff([]string{"config:image.style.large", "file:0"}, vm.Main.CacheTags); diff != "" {
		t.Errorf("main tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"config:image.style.thumbnail", "file:0"}, vm.Thumbnails.Images[0].CacheTags); diff != "" {
		t.Errorf("thumbnail 0 tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"config:image.style.thumbnail", "file:1"}, vm.Thumbnails.Images[1].CacheTags); diff != "" {
		t.Errorf("thumbnail 1 tags mismatch (-want +got):\n%s", diff)
	}
}

func TestAssets(t *testing.T) {
	tests := []struct {
		name     string
		active   []string
		lazyload bool
		want     []string
	}{
		{
			name:     "bare theme",
			lazyload: true,
			want:     []string{LibraryBase, LibraryHoverPreview, LibraryBootstrap, LibraryLazyload},
		},
		{
			name:   "bootstrap theme",
			active: []string{"core/drupal", "bootstrap/theme"},
			want:   []string{LibraryBase, LibraryHoverPreview},
		},
		{
			name:     "prefix only",
			active:   []string{"mytheme/bootstrap"},
			lazyload: true,
			want:     []string{LibraryBase, LibraryHoverPreview, LibraryBootstrap, LibraryLazyload},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Lazyload = tc.lazyload
			vm, err := New(&fakeStyles{}, fakeTheme(tc.active)).Render(nil, Field{Items: testItems(1)}, s)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tc.want, vm.Assets); diff != "" {
				t.Errorf("assets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownStyle(t *testing.T) {
	s := DefaultSettings()
	s.ImageStyle = "missing"

	_, err := New(&fakeStyles{}, fakeTheme{}).Render(nil, Field{Items: testItems(1)}, s)
	if !errors.Is(err, errNoStyle) {
		t.Errorf("Render() error = %v, want %v", err, errNoStyle)
	}
}

func TestModalAndCarousel(t *testing.T) {
	ids := NewUniqueIDs()
	f := New(&fakeStyles{}, fakeTheme{})

	s := DefaultSettings()
	first, err := f.Render(ids, Field{Label: "Photos", Items: testItems(1)}, s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	s.CarouselAutorotate = false
	second, err := f.Render(ids, Field{Label: "More", Items: testItems(1)}, s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := []string{
		"bootstrap-basic-image-gallery-modal",
		"bootstrap-basic-image-gallery-carousel",
		"bootstrap-basic-image-gallery-modal--2",
		"bootstrap-basic-image-gallery-carousel--2",
	}
	got := []string{first.Modal.ID, first.Carousel.ID, second.Modal.ID, second.Carousel.ID}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	if first.Modal.Label != "Photos" {
		t.Errorf("label = %q, want Photos", first.Modal.Label)
	}
	if first.Carousel.Autoplay != "carousel" || second.Carousel.Autoplay != "false" {
		t.Errorf("autoplay = %q, %q", first.Carousel.Autoplay, second.Carousel.Autoplay)
	}
}

func TestMissingMeta(t *testing.T) {
	items := []Item{{File: File{URI: "public://bare.jpg"}}}
	vm, err := New(&fakeStyles{}, fakeTheme{}).Render(nil, Field{Items: items}, DefaultSettings())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	c := vm.Carousel.Images[0]
	if c.Width != nil || c.Height != nil || c.Alt != "" || c.Title != "" {
		t.Errorf("carousel image = %+v, want empty metadata", c)
	}
	if got := vm.Main.Attributes["data-mainsrc"]; got != "public://bare.jpg" {
		t.Errorf("data-mainsrc = %q", got)
	}
}
