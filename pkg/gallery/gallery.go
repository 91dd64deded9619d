// Package gallery renders an image field as a main image, a row of
// thumbnails and a modal carousel.
package gallery

// File is a stored image file referenced by a field item.
type File struct {
	URI       string
	CacheTags []string
}

// Meta is the intrinsic metadata stored alongside a field item.
// Width and Height are nil when the file metadata lacks them.
type Meta struct {
	Width  *int
	Height *int
	Alt    string
	Title  string
}

// Item is one value of an image field.
type Item struct {
	File       File
	Meta       Meta
	Attributes map[string]string
}

// Field is an image field attached to a content entity.
type Field struct {
	Label string
	Items []Item
}

// Image is an item rendered at a particular image style.
type Image struct {
	Meta       Meta
	Attributes map[string]string
	// Style is the image style id, empty for the original image.
	Style     string
	Src       string
	CacheTags []string
}

// CarouselImage is a lightweight image shown in the modal carousel.
// Exactly one of Src or Attributes["data-src"] is set.
type CarouselImage struct {
	Width      *int
	Height     *int
	Alt        string
	Title      string
	Src        string
	Attributes map[string]string
}

// Thumbnails is the row of clickable thumbnails.
type Thumbnails struct {
	Class  string
	Images []*Image
}

// Modal is the dialog containing the carousel.
type Modal struct {
	ID    string
	Label string
}

// Carousel is the rotating full size viewer.
type Carousel struct {
	ID       string
	Autoplay string
	Images   []*CarouselImage
}

// ViewModel is the tree handed to the gallery template.
type ViewModel struct {
	Main       *Image
	Thumbnails Thumbnails
	Lazyload   string
	Modal      Modal
	Carousel   Carousel
	Assets     []string
}
