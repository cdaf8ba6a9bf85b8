package render

import (
	"github.com/PuerkitoBio/goquery"
	"strings"
)

// ExtractImages returns the src of every <img> in document order,
// duplicates included.
func ExtractImages(htmlText string) []string {
	if !strings.Contains(htmlText, "<img") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			out = append(out, src)
		}
	})
	return out
}
