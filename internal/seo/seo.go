// Package seo renders the HTML meta tags that point social platforms at the
// generated preview images.
package seo

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// ImageMeta holds what is needed to reference the generated images from a
// page head.
type ImageMeta struct {
	BaseURL      string // e.g. https://example.com, no trailing slash
	OGImage      string // file name of the Open Graph image
	TwitterImage string // file name of the Twitter Card image
	Width        int
	Height       int
}

// ImageURL joins baseURL and a file name with exactly one slash.
func ImageURL(baseURL, file string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(file, "/")
}

// OpenGraphImageMeta returns og:image, og:image:width and og:image:height
// tags separated by newlines.
func OpenGraphImageMeta(meta ImageMeta) string {
	tags := []string{
		ogTag("og:image", ImageURL(meta.BaseURL, meta.OGImage)),
		ogTag("og:image:width", strconv.Itoa(meta.Width)),
		ogTag("og:image:height", strconv.Itoa(meta.Height)),
	}
	return strings.Join(tags, "\n")
}

// ogTag generates a single Open Graph meta tag.
func ogTag(property, content string) string {
	return fmt.Sprintf(`<meta property="%s" content="%s" />`, property, html.EscapeString(content))
}

// TwitterImageMeta returns a summary_large_image twitter:card tag followed by
// twitter:image.
func TwitterImageMeta(meta ImageMeta) string {
	tags := []string{
		twitterTag("twitter:card", "summary_large_image"),
		twitterTag("twitter:image", ImageURL(meta.BaseURL, meta.TwitterImage)),
	}
	return strings.Join(tags, "\n")
}

// twitterTag generates a single Twitter card meta tag.
func twitterTag(name, content string) string {
	return fmt.Sprintf(`<meta name="%s" content="%s" />`, name, html.EscapeString(content))
}

// Snippet returns the Open Graph and Twitter tags as one block, ready to be
// pasted into a page head.
func Snippet(meta ImageMeta) string {
	return OpenGraphImageMeta(meta) + "\n" + TwitterImageMeta(meta)
}
