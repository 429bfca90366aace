package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	manifestFileName    = ".ssg-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records what the last build produced. It documents the
// output tree; builds never consult it to skip work.
type buildManifest struct {
	Version     int            `json:"version"`
	BuildID     string         `json:"build_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Pages       []manifestPage `json:"pages"`
}

type manifestPage struct {
	Source   string    `json:"source,omitempty"`
	Route    string    `json:"route"`
	Output   string    `json:"output"`
	Layout   string    `json:"layout,omitempty"`
	Checksum string    `json:"checksum"`
	LastMod  time.Time `json:"last_modified,omitempty"`
}

func newBuildManifest(buildID string, generatedAt time.Time, pages []RenderedPage) *buildManifest {
	manifest := &buildManifest{
		Version:     manifestFileVersion,
		BuildID:     buildID,
		GeneratedAt: generatedAt,
		Pages:       make([]manifestPage, 0, len(pages)),
	}

	for _, page := range pages {
		manifest.Pages = append(manifest.Pages, manifestPage{
			Source:   page.SourcePath,
			Route:    page.Route,
			Output:   page.Output,
			Layout:   page.Layout,
			Checksum: page.Checksum,
			LastMod:  page.LastMod,
		})
	}

	// Stable ordering for deterministic output.
	sort.Slice(manifest.Pages, func(i, j int) bool {
		return manifest.Pages[i].Output < manifest.Pages[j].Output
	})

	return manifest
}

func (m *buildManifest) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}
