package gallery

import "strings"

// Asset libraries attached to a rendered gallery.
const (
	LibraryBase         = "bootstrap_basic_image_gallery/bootstrap_basic"
	LibraryHoverPreview = "bootstrap_basic_image_gallery/hover_preview"
	LibraryBootstrap    = "bootstrap_basic_image_gallery/bootstrap_components"
	LibraryLazyload     = "bootstrap_basic_image_gallery/lazyload"
)

// bootstrapPrefix marks theme libraries that already ship Bootstrap.
const bootstrapPrefix = "bootstrap"

func assets(active []string, lazyload bool) []string {
	libs := []string{LibraryBase, LibraryHoverPreview}
	if !includesBootstrap(active) {
		libs = append(libs, LibraryBootstrap)
	}
	if lazyload {
		libs = append(libs, LibraryLazyload)
	}
	return libs
}

func includesBootstrap(active []string) bool {
	for _, l := range active {
		if strings.HasPrefix(l, bootstrapPrefix) {
			return true
		}
	}
	return false
}
