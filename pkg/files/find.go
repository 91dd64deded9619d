package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/gallery"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// MetaReader reads the intrinsic metadata of an image.
type MetaReader interface {
	Read(path string) (gallery.Meta, error)
}

// Sidecar is a JSON file next to an image overriding its alt and title,
// compatible with Google Takeout.
type Sidecar struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Find returns the images under the root directory as field items,
// ordered by path. Dot files and directories are skipped.
func Find(r Root, mr MetaReader) ([]gallery.Item, error) {
	found := []gallery.Item{}

	err := godirwalk.Walk(r.Dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != r.Dir && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}

			if de.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			rel, err := filepath.Rel(r.Dir, path)
			if err != nil {
				return err
			}
			klog.V(1).Infof("found %s", rel)

			m, err := mr.Read(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			sc, err := readSidecar(path)
			if err != nil {
				return err
			}
			if sc != nil {
				if sc.Description != "" {
					m.Alt = sc.Description
				}
				if sc.Title != "" {
					m.Title = sc.Title
				}
			}

			found = append(found, gallery.Item{
				File: gallery.File{
					URI:       URI(rel),
					CacheTags: []string{"file:" + filepath.ToSlash(rel)},
				},
				Meta: m,
			})
			return nil
		},
	})

	return found, err
}

func readSidecar(path string) (*Sidecar, error) {
	bs, err := os.ReadFile(path + ".json")
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	sc := &Sidecar{}
	if err := json.Unmarshal(bs, sc); err != nil {
		return nil, fmt.Errorf("parse sidecar %s.json: %w", path, err)
	}
	return sc, nil
}

// ExifReader reads image metadata with exiftool.
type ExifReader struct {
	et *exiftool.Exiftool
}

// NewExifReader starts an exiftool process.
func NewExifReader() (*ExifReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifReader{et: et}, nil
}

// Close stops the exiftool process.
func (e *ExifReader) Close() error {
	return e.et.Close()
}

// Read returns the dimensions, alt text (ImageDescription) and title
// (Headline) of an image. Absent tags are left empty.
func (e *ExifReader) Read(path string) (gallery.Meta, error) {
	m := gallery.Meta{}
	fi := e.et.ExtractMetadata(path)[0]
	if fi.Err != nil {
		return m, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	if w, err := fi.GetInt("ImageWidth"); err == nil {
		n := int(w)
		m.Width = &n
	} else {
		klog.V(1).Infof("unable to get width for %s: %v", path, err)
	}

	if h, err := fi.GetInt("ImageHeight"); err == nil {
		n := int(h)
		m.Height = &n
	} else {
		klog.V(1).Infof("unable to get height for %s: %v", path, err)
	}

	var err error
	m.Alt, err = fi.GetString("ImageDescription")
	if err != nil {
		klog.V(2).Infof("unable to get description for %s: %v", path, err)
	}

	m.Title, err = fi.GetString("Headline")
	if err != nil {
		klog.V(2).Infof("unable to get headline for %s: %v", path, err)
	}

	return m, nil
}

// SetAlt writes alt text into the ImageDescription tag of an image.
func (e *ExifReader) SetAlt(path string, alt string) error {
	fis := e.et.ExtractMetadata(path)
	if fis[0].Err != nil {
		return fmt.Errorf("extract fail for %q: %w", path, fis[0].Err)
	}

	fis[0].SetString("ImageDescription", alt)
	e.et.WriteMetadata(fis)
	if fis[0].Err != nil {
		return fmt.Errorf("write metadata for %q: %w", path, fis[0].Err)
	}
	return nil
}
