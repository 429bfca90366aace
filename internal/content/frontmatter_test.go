package content

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatterTypedFields(t *testing.T) {
	source := []byte(`---
title: Hello World
date: 2024-01-02T00:00:00Z
layout: post
permalink: /hello/
categories: [go, web]
tags:
  - blog
order: 2
excerpt: A short summary.
draft: true
hero_image: /images/hero.png
---
Body text.
`)

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if meta.Title != "Hello World" {
		t.Fatalf("expected title, got %q", meta.Title)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !meta.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, meta.Date)
	}
	if meta.Layout != "post" {
		t.Fatalf("expected layout post, got %q", meta.Layout)
	}
	if meta.Permalink != "/hello/" {
		t.Fatalf("expected permalink, got %q", meta.Permalink)
	}
	if len(meta.Categories) != 2 || meta.Categories[0] != "go" {
		t.Fatalf("unexpected categories: %v", meta.Categories)
	}
	if len(meta.Tags) != 1 || meta.Tags[0] != "blog" {
		t.Fatalf("unexpected tags: %v", meta.Tags)
	}
	if meta.Order == nil || *meta.Order != 2 {
		t.Fatalf("expected order 2, got %v", meta.Order)
	}
	if meta.Excerpt != "A short summary." {
		t.Fatalf("unexpected excerpt: %q", meta.Excerpt)
	}
	if !meta.Draft {
		t.Fatal("expected draft")
	}
	if strings.TrimSpace(string(body)) != "Body text." {
		t.Fatalf("unexpected body: %q", string(body))
	}
}

func TestParseFrontMatterKeepsCustomKeys(t *testing.T) {
	source := []byte(`---
title: Custom
hero_image: /images/hero.png
weight: 3
---
body
`)

	meta, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got, ok := meta.GetString("hero_image"); !ok || got != "/images/hero.png" {
		t.Fatalf("expected hero_image in raw map, got %q (present=%v)", got, ok)
	}
	if got, ok := meta.GetNumber("weight"); !ok || got != 3 {
		t.Fatalf("expected weight 3, got %v (present=%v)", got, ok)
	}
	if got, ok := meta.GetString("title"); !ok || got != "Custom" {
		t.Fatalf("expected typed key mirrored into raw map, got %q", got)
	}
	if _, ok := meta.GetString("missing"); ok {
		t.Fatal("expected missing key to report absence")
	}
}

func TestParseFrontMatterWithoutHeader(t *testing.T) {
	source := []byte("Just a body, no metadata.\n")

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Title != "" || meta.Layout != "" {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
	if string(body) != string(source) {
		t.Fatalf("expected body unchanged, got %q", string(body))
	}
}

func TestParseFrontMatterMalformedHeader(t *testing.T) {
	source := []byte("---\ntitle: [unclosed\n---\nbody\n")

	if _, _, err := ParseFrontMatter(source); err == nil {
		t.Fatal("expected error for malformed front matter")
	}
}

func TestGetStringsAcceptsYAMLSequences(t *testing.T) {
	meta := FrontMatter{Raw: map[string]any{
		"tags":  []any{"go", "web"},
		"mixed": []any{"go", 1},
	}}

	got, ok := meta.GetStrings("tags")
	if !ok || len(got) != 2 || got[1] != "web" {
		t.Fatalf("unexpected tags: %v (present=%v)", got, ok)
	}
	if _, ok := meta.GetStrings("mixed"); ok {
		t.Fatal("expected mixed-type sequence to be rejected")
	}
}
