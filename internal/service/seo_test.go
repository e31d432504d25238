package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/foliolog/internal/db"
)

func TestSitemapCacheFreshnessBound(t *testing.T) {
	gdb := setupServiceTestDB(t)
	blogs := NewBlogService(gdb, nil)
	projects := NewProjectService(gdb, nil)

	if _, err := blogs.Create(BlogInput{
		Title:   "First Post",
		Content: "<p>body</p>",
		Excerpt: "ex",
		Status:  "published",
	}); err != nil {
		t.Fatalf("seed blog: %v", err)
	}

	builder := NewSitemapBuilder(blogs, projects, "https://example.dev")
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	builder.cache.now = func() time.Time { return current }

	first, err := builder.XML()
	if err != nil {
		t.Fatalf("build sitemap: %v", err)
	}
	if !strings.Contains(string(first), "https://example.dev/blog/first-post") {
		t.Fatalf("sitemap missing blog url: %s", first)
	}

	// 缓存窗口内即使数据变化也返回逐字节相同的文档
	if _, err := blogs.Create(BlogInput{
		Title:   "Second Post",
		Content: "<p>body</p>",
		Excerpt: "ex",
		Status:  "published",
	}); err != nil {
		t.Fatalf("seed second blog: %v", err)
	}

	current = current.Add(59 * time.Minute)
	cached, err := builder.XML()
	if err != nil {
		t.Fatalf("cached sitemap: %v", err)
	}
	if !bytes.Equal(first, cached) {
		t.Fatalf("expected byte-identical cached sitemap within TTL")
	}

	// 过期后重建，新文档反映当前存储状态
	current = current.Add(2 * time.Minute)
	rebuilt, err := builder.XML()
	if err != nil {
		t.Fatalf("rebuild sitemap: %v", err)
	}
	if bytes.Equal(first, rebuilt) {
		t.Fatalf("expected rebuild after TTL expiry")
	}
	if !strings.Contains(string(rebuilt), "second-post") {
		t.Fatalf("rebuilt sitemap missing new blog: %s", rebuilt)
	}
}

func TestSitemapExcludesDrafts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	blogs := NewBlogService(gdb, nil)
	projects := NewProjectService(gdb, nil)

	if _, err := blogs.Create(BlogInput{
		Title:   "Hidden Draft",
		Content: "<p>body</p>",
		Excerpt: "ex",
		Status:  "draft",
	}); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	if _, err := projects.Create(ProjectInput{
		Title:       "Side Project",
		Content:     "<p>body</p>",
		Description: "desc",
		Status:      "in_progress",
	}); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	builder := NewSitemapBuilder(blogs, projects, "https://example.dev")
	doc, err := builder.XML()
	if err != nil {
		t.Fatalf("build sitemap: %v", err)
	}

	if strings.Contains(string(doc), "hidden-draft") {
		t.Fatalf("draft leaked into sitemap: %s", doc)
	}
	if !strings.Contains(string(doc), "https://example.dev/portfolio/side-project") {
		t.Fatalf("project missing from sitemap: %s", doc)
	}
}

func TestFeedUsesMetaSettingsAndCover(t *testing.T) {
	gdb := setupServiceTestDB(t)
	blogs := NewBlogService(gdb, nil)
	sections := NewSectionService(gdb)

	if _, err := sections.SaveMeta(db.MetaSetting{
		SiteTitle:       "My Folio",
		SiteDescription: "Notes and projects",
		Author:          "jane@example.dev (Jane)",
	}); err != nil {
		t.Fatalf("save meta: %v", err)
	}

	if _, err := blogs.Create(BlogInput{
		Title:      "Feed Post",
		Content:    "<p>body</p>",
		Excerpt:    "A short excerpt",
		Status:     "published",
		CoverImage: "/static/uploads/feed-cover.jpg",
	}); err != nil {
		t.Fatalf("seed blog: %v", err)
	}

	builder := NewFeedBuilder(blogs, sections, "https://example.dev")
	doc, err := builder.XML()
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}
	feed := string(doc)

	for _, want := range []string{
		"<title>My Folio</title>",
		"<description>Notes and projects</description>",
		"<link>https://example.dev/blog/feed-post</link>",
		"<guid>https://example.dev/blog/feed-post</guid>",
		"A short excerpt",
		`url="https://example.dev/static/uploads/feed-cover.jpg"`,
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("feed missing %q:\n%s", want, feed)
		}
	}
}

func TestFeedErrorLeavesCacheUntouched(t *testing.T) {
	gdb := setupServiceTestDB(t)
	blogs := NewBlogService(gdb, nil)
	sections := NewSectionService(gdb)

	builder := NewFeedBuilder(blogs, sections, "https://example.dev")
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	builder.cache.now = func() time.Time { return current }

	first, err := builder.XML()
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}

	// 模拟存储故障：过期后的重建失败应向上报错，且不得改写缓存内容
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.Close()

	current = current.Add(2 * time.Hour)
	if _, err := builder.XML(); err == nil {
		t.Fatalf("expected rebuild error after store failure")
	}
	if !bytes.Equal(first, builder.cache.doc) {
		t.Fatalf("cache mutated despite failed rebuild")
	}
	if !builder.cache.builtAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("cache timestamp mutated despite failed rebuild")
	}
}
