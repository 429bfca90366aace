package index

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-ssg/internal/content"
)

// Page is one fixed-size slice of the ordered post collection. Pages are
// numbered from 1. A collection with zero posts still yields a single page so
// the blog index always renders, just without pagination controls.
type Page struct {
	Number     int
	TotalPages int
	Posts      []*content.Unit
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
	URL        string
}

// URLBuilder maps a page number to the URL the rendered page lives at.
type URLBuilder func(number int) string

// Sort orders posts for display: explicit numeric front matter order first
// (descending), publication date second (descending, newest first). The sort
// is stable so equal keys preserve input order and pagination stays
// deterministic across runs.
func Sort(posts []*content.Unit) []*content.Unit {
	sorted := append([]*content.Unit(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return displayBefore(sorted[i], sorted[j])
	})
	return sorted
}

func displayBefore(a, b *content.Unit) bool {
	aOrder, bOrder := a.FrontMatter.Order, b.FrontMatter.Order

	switch {
	case aOrder != nil && bOrder != nil:
		if *aOrder != *bOrder {
			return *aOrder > *bOrder
		}
		return false
	case aOrder != nil:
		return true
	case bOrder != nil:
		return false
	}

	return a.Date().After(b.Date())
}

// Paginate splits the ordered posts into fixed-size pages and wires up
// previous/next links through the supplied URL builder.
func Paginate(posts []*content.Unit, pageSize int, urlFor URLBuilder) ([]*Page, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("index: page size must be positive, got %d", pageSize)
	}
	if urlFor == nil {
		urlFor = func(int) string { return "" }
	}

	total := (len(posts) + pageSize - 1) / pageSize
	if total == 0 {
		total = 1
	}

	pages := make([]*Page, 0, total)
	for number := 1; number <= total; number++ {
		start := (number - 1) * pageSize
		end := min(start+pageSize, len(posts))

		var slice []*content.Unit
		if start < len(posts) {
			slice = posts[start:end]
		}

		page := &Page{
			Number:     number,
			TotalPages: total,
			Posts:      slice,
			HasPrev:    number > 1,
			HasNext:    number < total,
			URL:        urlFor(number),
		}
		if page.HasPrev {
			page.PrevURL = urlFor(number - 1)
		}
		if page.HasNext {
			page.NextURL = urlFor(number + 1)
		}
		pages = append(pages, page)
	}

	return pages, nil
}
