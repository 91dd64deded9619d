// autoalt adds suggested alt text to images lacking it using Gemini.
package main

import (
	"context"
	"flag"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"github.com/tstromberg/bsgallery/pkg/alttext"
	"github.com/tstromberg/bsgallery/pkg/files"
)

var (
	dryRun    = flag.Bool("n", false, "dry-run mode, don't write alt text")
	overwrite = flag.Bool("o", false, "overwrite existing alt text")
	model     = flag.String("model", "gemini-2.5-flash", "Gemini model to use")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("No input directories provided. Usage: %s <files_dir> [files_dir ...]", os.Args[0])
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_AI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		klog.Exitf("genai: %v", err)
	}

	er, err := files.NewExifReader()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := er.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	total, written := 0, 0
	for _, dir := range flag.Args() {
		root := files.Root{Dir: dir}
		is, err := files.Find(root, er)
		if err != nil {
			klog.Exitf("find %s: %v", dir, err)
		}
		klog.Infof("Found %d images in %s", len(is), dir)

		for _, i := range is {
			total++
			if !*overwrite && i.Meta.Alt != "" {
				klog.V(1).Infof("%s has alt text: %q", i.File.URI, i.Meta.Alt)
				continue
			}

			p, err := root.Path(i.File.URI)
			if err != nil {
				klog.Errorf("path: %v", err)
				continue
			}

			alt, err := alttext.Describe(ctx, client, *model, p)
			if err != nil {
				klog.Errorf("describe %s: %v", p, err)
				continue
			}

			klog.Infof("alt text for %s: %q", p, alt)
			if *dryRun {
				continue
			}
			if err := er.SetAlt(p, alt); err != nil {
				klog.Errorf("%v", err)
				continue
			}
			written++
		}
	}

	klog.Infof("autoalt completed. Wrote alt text for %d of %d images", written, total)
}
