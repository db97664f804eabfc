package scraper

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const dailyStarBaseURL = "https://www.thedailystar.net"

const (
	dailyStarImageHost = "tds-images.thedailystar.net"
	// Site logos and Bangla-edition chrome are served from this host.
	dailyStarLogoHost = "tds-images-bn.thedailystar.net"
)

// ExtractDailyStarImage picks the lead image of a Daily Star article page.
// It returns "" when the page has no recognisable article image.
func ExtractDailyStarImage(doc *goquery.Document) string {
	base := dailyStarBaseURL
	if doc.Url != nil && doc.Url.Host != "" {
		base = doc.Url.Scheme + "://" + doc.Url.Host
	}

	// The lightbox gallery carries the cleanest URL.
	if src, ok := doc.Find(".section-media .lg-gallery").First().Attr("data-src"); ok {
		if src = strings.TrimSpace(src); src != "" {
			return absoluteURL(base, src)
		}
	}

	el := findArticlePicture(doc)
	if el == nil {
		el = findLazyGalleryPicture(doc)
	}
	if el == nil {
		return ""
	}

	u := firstSrcsetURL(el)
	if u == "" {
		return ""
	}
	u = absoluteURL(base, u)
	if strings.Contains(strings.ToLower(u), dailyStarLogoHost) {
		return ""
	}
	return u
}

// findArticlePicture scans <picture> elements for article images, preferring
// pictures that offer a /big_ rendition.
func findArticlePicture(doc *goquery.Document) *goquery.Selection {
	type candidate struct {
		priority int
		picture  *goquery.Selection
	}
	var candidates []candidate

	doc.Find("picture").Each(func(_ int, pic *goquery.Selection) {
		if !isArticlePicture(pic) {
			return
		}
		priority := 1
		pic.Find("source").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(srcsetAttr(s)), "/big_") {
				priority = 0
				return false
			}
			return true
		})
		candidates = append(candidates, candidate{priority: priority, picture: pic})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority < candidates[j].priority
	})

	for _, c := range candidates {
		if el := firstWithSrcset(c.picture, "source"); el != nil {
			return el
		}
		if el := firstWithSrcset(c.picture, "img"); el != nil {
			return el
		}
	}
	return nil
}

// isArticlePicture reports whether a picture holds an article image from the
// image host that is neither an author portrait nor a thumbnail. Pictures
// mixing in logo-host sources are accepted only if an article image is present.
func isArticlePicture(pic *goquery.Selection) bool {
	article := false
	pic.Find("source, img").Each(func(_ int, s *goquery.Selection) {
		srcset := strings.ToLower(srcsetAttr(s))
		if strings.Contains(srcset, dailyStarImageHost) &&
			!strings.Contains(srcset, "author") && !strings.Contains(srcset, "/small_") {
			article = true
		}
	})
	return article
}

func findLazyGalleryPicture(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(".lg-gallery picture").EachWithBreak(func(_ int, pic *goquery.Selection) bool {
		if pic.Find("img.lazyloaded").Length() == 0 {
			return true
		}
		if el := firstWithSrcset(pic, "source"); el != nil {
			found = el
		} else if el := firstWithSrcset(pic, "img"); el != nil {
			found = el
		}
		return false
	})
	return found
}

func firstWithSrcset(s *goquery.Selection, tag string) *goquery.Selection {
	var found *goquery.Selection
	s.Find(tag).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if srcsetAttr(el) != "" {
			found = el
			return false
		}
		return true
	})
	return found
}

func srcsetAttr(s *goquery.Selection) string {
	if v := s.AttrOr("srcset", ""); v != "" {
		return v
	}
	return s.AttrOr("data-srcset", "")
}

// firstSrcsetURL returns the first candidate URL of an element's srcset,
// falling back to src attributes.
func firstSrcsetURL(el *goquery.Selection) string {
	var value string
	for _, attr := range []string{"srcset", "data-srcset", "src", "data-src"} {
		if v := strings.TrimSpace(el.AttrOr(attr, "")); v != "" {
			value = v
			break
		}
	}
	if value == "" {
		return ""
	}
	if i := strings.Index(value, ","); i >= 0 {
		value = value[:i]
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// absoluteURL resolves protocol-relative and site-relative references.
func absoluteURL(base, ref string) string {
	switch {
	case strings.HasPrefix(ref, "http"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return strings.TrimRight(base, "/") + ref
	default:
		return strings.TrimRight(base, "/") + "/" + ref
	}
}
