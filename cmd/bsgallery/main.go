// bsgallery renders a directory of images as a Bootstrap image gallery.
package main

import (
	"flag"
	"net/http"
	"path/filepath"
	"slices"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/files"
	"github.com/tstromberg/bsgallery/pkg/gallery"
	"github.com/tstromberg/bsgallery/pkg/imagestyle"
	"github.com/tstromberg/bsgallery/pkg/manage"
	"github.com/tstromberg/bsgallery/pkg/site"
	"github.com/tstromberg/bsgallery/pkg/theme"
)

var (
	inDir        = flag.String("in", "", "Location of the public files directory")
	outDir       = flag.String("out", "", "Location of output directory")
	title        = flag.String("title", "bsgallery", "Page title")
	label        = flag.String("label", "Images", "Label of the image field")
	settingsPath = flag.String("settings", "", "JSON file with gallery display settings")
	stylesPath   = flag.String("styles", "", "JSON file with image style definitions")
	themeName    = flag.String("theme", "bsgallery", "Name of the active theme")
	themeLibs    = flag.String("theme-libraries", "", "Comma-separated libraries the active theme already includes")
	libraryDir   = flag.String("libraries", "pkg/theme/libraries", "Location of the asset library files")
	listen       = flag.Bool("listen", false, "serve content via HTTP")
	addr         = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag    = flag.Bool("watch", false, "watch for changes to --in and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *inDir == "" {
		klog.Exitf("--in is a required flag")
	}

	if *outDir == "" {
		klog.Exitf("--out is a required flag")
	}

	settings := gallery.DefaultSettings()
	if *settingsPath != "" {
		var err error
		settings, err = gallery.LoadSettings(*settingsPath)
		if err != nil {
			klog.Exitf("settings: %v", err)
		}
	}

	styles := imagestyle.DefaultStyles
	if *stylesPath != "" {
		var err error
		styles, err = imagestyle.LoadStyles(*stylesPath)
		if err != nil {
			klog.Exitf("styles: %v", err)
		}
	}

	c := &site.Config{
		InDir:    *inDir,
		OutDir:   *outDir,
		Title:    *title,
		Label:    *label,
		Settings: settings,
		Styles:   styles,
		Theme: theme.Theme{
			Name:      *themeName,
			Libraries: theme.ParseLibraries(*themeLibs),
		},
		LibraryDir: *libraryDir,
	}

	for _, l := range gallery.Summarize(settings) {
		klog.Infof("%s", l)
	}

	er, err := files.NewExifReader()
	if err != nil {
		klog.Exitf("exiftool failed: %v", err)
	}
	defer func() {
		if err := er.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	s, err := build(c, er)
	if err != nil {
		klog.Exitf("build failed: %v", err)
	}
	cur := &current{s: s}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(c, cur, er); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(cur, *outDir, *addr)
		}()
	}

	wg.Wait()
}

func build(c *site.Config, mr files.MetaReader) (*site.Site, error) {
	s, err := site.Collect(c, mr)
	if err != nil {
		return nil, err
	}
	if err := s.Write(); err != nil {
		return nil, err
	}
	return s, nil
}

// current is the most recently built site.
type current struct {
	mu sync.RWMutex
	s  *site.Site
}

func (c *current) get() *site.Site {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s
}

func (c *current) set(s *site.Site) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s = s
}

func (c *current) StyleOptions() []gallery.SelectOption {
	return c.get().Styles.StyleOptions()
}

func (c *current) Page(st gallery.Settings) ([]byte, error) {
	return c.get().Page(st)
}

// serve serves the output directory and the settings editor via HTTP
func serve(cur *current, path string, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(path)))
	manage.New(cur.get().Settings(), cur, cur.Page).Register(mux)

	klog.Infof("Listening on %s...", addr)
	err := http.ListenAndServe(addr, mux)
	if err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watch watches the files directory for changes and rebuilds
func watch(c *site.Config, cur *current, mr files.MetaReader) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := files.Root{Dir: c.InDir}
	dirs := []string{c.InDir}
	for _, i := range cur.get().Items {
		p, err := root.Path(i.File.URI)
		if err != nil {
			return err
		}
		dirs = append(dirs, filepath.Dir(p))
	}

	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				s, err := build(c, mr)
				if err != nil {
					klog.Errorf("rebuild failed: %v", err)
					continue
				}
				cur.set(s)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
