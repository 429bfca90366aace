package generator

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	siteGroup     = "site"
	routeBlogPage = "blog_page"
)

// urlBuilder resolves generated-page URLs through a go-urlkit RouteManager so
// pagination links and feed entries share one routing table.
type urlBuilder struct {
	manager       *urlkit.RouteManager
	blogIndexPath string
}

// newURLBuilder wires the routing table for index/pagination pages. The
// pagination pattern must carry a :number parameter
// (e.g. "/blog/page/:number/").
func newURLBuilder(paginationPath string) (*urlBuilder, error) {
	pattern := strings.TrimSpace(paginationPath)
	if pattern == "" {
		pattern = "/blog/page/:number/"
	}
	if !strings.Contains(pattern, ":number") {
		return nil, fmt.Errorf("generator: pagination path %q is missing the :number parameter", pattern)
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: siteGroup,
				Paths: map[string]string{
					routeBlogPage: strings.TrimSuffix(pattern, "/"),
				},
			},
		},
	})

	return &urlBuilder{
		manager:       manager,
		blogIndexPath: blogIndexFromPattern(pattern),
	}, nil
}

// PageURL returns the route for the numbered blog index page. Page one is
// always the blog index itself.
func (b *urlBuilder) PageURL(number int) string {
	if number <= 1 {
		return b.blogIndexPath
	}

	url, err := b.build(routeBlogPage, map[string]any{"number": number})
	if err != nil || strings.TrimSpace(url) == "" {
		return b.blogIndexPath
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}

// BlogIndexPath returns the route of the first blog index page.
func (b *urlBuilder) BlogIndexPath() string {
	return b.blogIndexPath
}

func (b *urlBuilder) build(route string, params map[string]any) (string, error) {
	group, err := lookupGroup(b.manager, siteGroup)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

// blogIndexFromPattern derives the index route from everything before the
// :number parameter, so "/blog/page/:number/" maps page one to "/blog/" and
// "/posts/:number/" maps it to "/posts/". A conventional trailing "page"
// segment collapses onto the index itself.
func blogIndexFromPattern(pattern string) string {
	idx := strings.Index(pattern, ":number")
	if idx < 0 {
		return "/blog/"
	}
	prefix := strings.TrimRight(pattern[:idx], "/")
	prefix = strings.TrimRight(strings.TrimSuffix(prefix, "/page"), "/")
	if prefix == "" {
		return "/"
	}
	return prefix + "/"
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("generator: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("generator: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("generator: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("generator: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}
