// Package alttext suggests alt text for images using Gemini.
package alttext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// MaxLen is the longest alt text we keep, in runes.
var MaxLen = 125

var prompt = "Write alt text for this image for a visually impaired reader of a photo gallery. " +
	"Describe the subject and setting in a single plain sentence of at most 20 words. " +
	"Do not start with 'image of' or 'photo of'. Do not mention the camera or photo quality. " +
	"Reply with the sentence only."

// Describe returns suggested alt text for a JPEG or PNG image.
func Describe(ctx context.Context, client *genai.Client, model string, path string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	mime := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		mime = "image/png"
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, mime),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	alt := clean(resp.Text())
	klog.V(1).Infof("%s: %q", path, alt)
	if alt == "" {
		return "", fmt.Errorf("empty response for %s", path)
	}
	return alt, nil
}

// clean trims model output into a single line of alt text.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.Trim(s, `"'`)

	lower := strings.ToLower(s)
	for _, p := range []string{"image of ", "photo of ", "a photo of ", "an image of "} {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			if s != "" {
				r, n := utf8.DecodeRuneInString(s)
				s = strings.ToUpper(string(r)) + s[n:]
			}
			break
		}
	}

	if utf8.RuneCountInString(s) > MaxLen {
		s = strings.TrimSpace(string([]rune(s)[:MaxLen]))
	}
	return s
}
