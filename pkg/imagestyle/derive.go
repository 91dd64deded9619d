package imagestyle

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// Derive creates the derivative of uri unless an up to date copy exists,
// returning its local path.
func (d *Derivative) Derive(uri string) (string, error) {
	src, err := d.store.root.Path(uri)
	if err != nil {
		return "", err
	}
	rel, err := d.relPath(uri)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(d.store.outDir, filepath.FromSlash(rel))

	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	sst, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}

	dst, err := os.Stat(dest)
	if err == nil && !sst.ModTime().After(dst.ModTime()) && dst.Size() > 0 {
		klog.V(1).Infof("%s is up to date", dest)
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	img, err := imgio.Open(src)
	if err != nil {
		return "", fmt.Errorf("imgio.Open: %w", err)
	}

	if err := d.create(img, dest); err != nil {
		return "", fmt.Errorf("create %s: %w", d.style.ID, err)
	}
	return dest, nil
}

// scale returns the size of b fit within the style box, keeping aspect.
func (d *Derivative) scale(b image.Rectangle) (int, int, error) {
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, 0, fmt.Errorf("empty image: %+v", b)
	}

	sx := float64(d.style.X) / float64(b.Dx())
	sy := float64(d.style.Y) / float64(b.Dy())

	f := sx
	switch {
	case d.style.X == 0:
		f = sy
	case d.style.Y != 0 && sy < sx:
		f = sy
	}

	x := max(1, int(float64(b.Dx())*f+0.5))
	y := max(1, int(float64(b.Dy())*f+0.5))
	return x, y, nil
}

func (d *Derivative) create(i image.Image, path string) error {
	x, y, err := d.scale(i.Bounds())
	if err != nil {
		return err
	}
	klog.Infof("creating %dx%d %s derivative: %s - %+v", x, y, d.style.ID, path, i.Bounds())

	rimg := transform.Resize(i, x, y, transform.Lanczos)
	enc := imgio.JPEGEncoder(d.style.Quality)
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		enc = imgio.PNGEncoder()
	}

	if err := imgio.Save(path, rimg, enc); err != nil {
		klog.Errorf("save failed: %s", err)
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// DeriveAll creates the derivatives of every uri for the given styles.
// Empty style ids are skipped.
func (s *Store) DeriveAll(ids []string, uris []string) error {
	for _, id := range ids {
		if id == "" {
			continue
		}
		st, err := s.Load(id)
		if err != nil {
			return err
		}
		d := st.(*Derivative)
		for _, u := range uris {
			if _, err := d.Derive(u); err != nil {
				return fmt.Errorf("derive %s: %w", u, err)
			}
		}
	}
	return nil
}
