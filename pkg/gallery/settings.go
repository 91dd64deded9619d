package gallery

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// OriginalImage is shown in place of an empty image style id.
const OriginalImage = "Original Image"

// Settings are the display settings of a gallery field.
type Settings struct {
	// ImageStyle is the style of the main image, empty for the original.
	ImageStyle          string `json:"image_style"`
	ThumbnailImageStyle string `json:"thumbnail_image_style"`
	// ThumbnailsPerRow of 0 leaves the thumbnail row unconstrained.
	ThumbnailsPerRow   int  `json:"thumbnails_per_row"`
	CarouselAutorotate bool `json:"carousel_autorotate"`
	Lazyload           bool `json:"lazyload"`
}

// DefaultSettings returns the settings used for absent keys.
func DefaultSettings() Settings {
	return Settings{
		ThumbnailsPerRow:   3,
		CarouselAutorotate: true,
		Lazyload:           true,
	}
}

// UnmarshalJSON fills absent keys with their defaults.
func (s *Settings) UnmarshalJSON(b []byte) error {
	type plain Settings
	p := plain(DefaultSettings())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.ThumbnailsPerRow < 0 {
		return &ValidationError{Fields: map[string]string{
			"thumbnails_per_row": fmt.Sprintf("%d is negative", p.ThumbnailsPerRow),
		}}
	}
	*s = Settings(p)
	return nil
}

// LoadSettings reads settings from a JSON file.
func LoadSettings(path string) (Settings, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(bs, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

func styleLabel(id string) string {
	if id == "" {
		return OriginalImage
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Summarize describes the settings, one line per setting.
func Summarize(s Settings) []string {
	return []string{
		fmt.Sprintf("Image Style: %s", styleLabel(s.ImageStyle)),
		fmt.Sprintf("Thumbnails Per Row: %d", s.ThumbnailsPerRow),
		fmt.Sprintf("Thumbnail Image Style: %s", styleLabel(s.ThumbnailImageStyle)),
		fmt.Sprintf("Autorotate Carousel? %s", yesNo(s.CarouselAutorotate)),
		fmt.Sprintf("Lazy Load Images? %s", yesNo(s.Lazyload)),
	}
}

// SelectOption is a selectable value in a settings form.
type SelectOption struct {
	Value string
	Label string
}

// StyleLister lists the image styles a setting may refer to.
type StyleLister interface {
	StyleOptions() []SelectOption
}

// FormElement describes one input of the settings form.
type FormElement struct {
	Name        string
	Type        string
	Title       string
	Description string
	Value       string
	EmptyOption string
	Options     []SelectOption
	Min         *int
}

// SettingsForm describes the form used to edit s.
func SettingsForm(s Settings, styles StyleLister) []FormElement {
	opts := styles.StyleOptions()
	zero := 0
	return []FormElement{
		{
			Name:        "image_style",
			Type:        "select",
			Title:       "Image style",
			Description: "Image style used for rendering the main image.",
			Value:       s.ImageStyle,
			EmptyOption: "None (original image)",
			Options:     opts,
		},
		{
			Name:        "thumbnails_per_row",
			Type:        "number",
			Title:       "Thumbnails Per Row",
			Description: "Number of thumbnails displayed per row under the main image.",
			Value:       strconv.Itoa(s.ThumbnailsPerRow),
			Min:         &zero,
		},
		{
			Name:        "thumbnail_image_style",
			Type:        "select",
			Title:       "Thumbnail Image style",
			Description: "Image style used for rendering the thumbnails.",
			Value:       s.ThumbnailImageStyle,
			EmptyOption: "None (original image)",
			Options:     opts,
		},
		{
			Name:        "carousel_autorotate",
			Type:        "checkbox",
			Title:       "Autorotate Carousel?",
			Description: "Decides whether or not the carousel auto-rotates after opening.",
			Value:       checkboxValue(s.CarouselAutorotate),
		},
		{
			Name:  "lazyload",
			Type:  "checkbox",
			Title: "Lazy Load Images?",
			Description: "Decides whether or not the images in the popup will be lazy loaded. " +
				"If yes, the images will not be loaded by the user until they are viewed. " +
				"This speeds up page loading time.",
			Value: checkboxValue(s.Lazyload),
		},
	}
}

func checkboxValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ValidationError lists the settings that failed validation, by key.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

// ParseSettings builds settings from submitted form values.
// Absent checkboxes are unchecked; an absent number keeps its default.
func ParseSettings(values map[string]string, styles StyleLister) (Settings, error) {
	s := DefaultSettings()
	bad := map[string]string{}

	known := map[string]bool{}
	for _, o := range styles.StyleOptions() {
		known[o.Value] = true
	}

	for _, key := range []string{"image_style", "thumbnail_image_style"} {
		v := strings.TrimSpace(values[key])
		if v != "" && !known[v] {
			bad[key] = fmt.Sprintf("unknown image style %q", v)
		}
		if key == "image_style" {
			s.ImageStyle = v
		} else {
			s.ThumbnailImageStyle = v
		}
	}

	if v := strings.TrimSpace(values["thumbnails_per_row"]); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			bad["thumbnails_per_row"] = fmt.Sprintf("%q is not an integer", v)
		case n < 0:
			bad["thumbnails_per_row"] = fmt.Sprintf("%d is negative", n)
		default:
			s.ThumbnailsPerRow = n
		}
	}

	s.CarouselAutorotate = checked(values["carousel_autorotate"])
	s.Lazyload = checked(values["lazyload"])

	if len(bad) > 0 {
		return s, &ValidationError{Fields: bad}
	}
	return s, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}
