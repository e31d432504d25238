package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/foliolog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func blogImageRows(t *testing.T, gdb *gorm.DB, blogID uint) []db.BlogImage {
	t.Helper()
	var images []db.BlogImage
	if err := gdb.Where("blog_id = ?", blogID).Order("sort_order asc, id asc").Find(&images).Error; err != nil {
		t.Fatalf("load blog images: %v", err)
	}
	return images
}

func TestBlogServiceCreateDerivesSlugAndPlaintext(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	blog, err := svc.Create(BlogInput{
		Title:   "My Cool App, v2!",
		Content: "<h1>Hello</h1>\n<p>World</p>",
		Excerpt: "An excerpt",
		Status:  "published",
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if blog.Slug != "my-cool-app-v2" {
		t.Fatalf("expected slug my-cool-app-v2, got %q", blog.Slug)
	}
	if blog.Plaintext != "Hello World" {
		t.Fatalf("expected derived plaintext, got %q", blog.Plaintext)
	}
	if blog.Status != db.BlogStatusPublished {
		t.Fatalf("expected published status, got %q", blog.Status)
	}
}

func TestBlogServiceCreateDuplicateTitleLeavesNoRows(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	if _, err := svc.Create(BlogInput{
		Title:   "Hello World",
		Content: "<p>first</p>",
		Excerpt: "ex",
		Status:  "published",
	}); err != nil {
		t.Fatalf("create first blog: %v", err)
	}

	_, err := svc.Create(BlogInput{
		Title:         "Hello World",
		Content:       "<p>second</p>",
		Excerpt:       "ex",
		Status:        "published",
		CoverImage:    "/static/uploads/dup-cover.jpg",
		GalleryImages: []string{"/static/uploads/dup-g1.jpg"},
	})
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	var blogCount, imageCount int64
	if err := gdb.Model(&db.Blog{}).Count(&blogCount).Error; err != nil {
		t.Fatalf("count blogs: %v", err)
	}
	if err := gdb.Model(&db.BlogImage{}).Count(&imageCount).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if blogCount != 1 {
		t.Fatalf("expected 1 blog row, got %d", blogCount)
	}
	if imageCount != 0 {
		t.Fatalf("expected 0 image rows, got %d", imageCount)
	}
}

func TestBlogServiceCreateInsertsImagesInOrder(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	blog, err := svc.Create(BlogInput{
		Title:         "With Images",
		Content:       "<p>body</p>",
		Excerpt:       "ex",
		Status:        "draft",
		CoverImage:    "/static/uploads/cover.jpg",
		GalleryImages: []string{"/static/uploads/g1.jpg", "/static/uploads/g2.jpg", "/static/uploads/g3.jpg"},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if got := blog.CoverURL(); got != "/static/uploads/cover.jpg" {
		t.Fatalf("expected cover url, got %q", got)
	}
	gallery := blog.GalleryURLs()
	want := []string{"/static/uploads/g1.jpg", "/static/uploads/g2.jpg", "/static/uploads/g3.jpg"}
	if len(gallery) != len(want) {
		t.Fatalf("expected %d gallery images, got %d", len(want), len(gallery))
	}
	for i := range want {
		if gallery[i] != want[i] {
			t.Fatalf("gallery[%d] = %q, want %q", i, gallery[i], want[i])
		}
	}
}

func TestBlogServiceUpdateKeepsSlugAndReplacesImages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	blog, err := svc.Create(BlogInput{
		Title:         "Hello World",
		Content:       "<p>body</p>",
		Excerpt:       "ex",
		Status:        "published",
		CoverImage:    "/static/uploads/old-cover.jpg",
		GalleryImages: []string{"/static/uploads/old-g1.jpg"},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	updated, err := svc.Update("hello-world", BlogInput{
		Title:         "Hello World Redux",
		Content:       "<p>new body</p>",
		Excerpt:       "new ex",
		Status:        "published",
		GalleryImages: []string{"/static/uploads/new-g1.jpg", "/static/uploads/new-g2.jpg"},
	})
	if err != nil {
		t.Fatalf("update blog: %v", err)
	}

	// 标题变化但 slug 维持不变：博客的永久链接是稳定的
	if updated.Slug != "hello-world" {
		t.Fatalf("expected slug to stay hello-world, got %q", updated.Slug)
	}
	if updated.Title != "Hello World Redux" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}

	images := blogImageRows(t, gdb, blog.ID)
	if len(images) != 2 {
		t.Fatalf("expected exactly the resupplied images, got %d rows", len(images))
	}
	if updated.CoverURL() != "" {
		t.Fatalf("expected no cover after update without one, got %q", updated.CoverURL())
	}
	for _, img := range images {
		if img.ImageURL == "/static/uploads/old-cover.jpg" || img.ImageURL == "/static/uploads/old-g1.jpg" {
			t.Fatalf("old image %q survived the replacement", img.ImageURL)
		}
	}
}

func TestBlogServiceUpdateNotFoundLeavesStateUntouched(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	blog, err := svc.Create(BlogInput{
		Title:      "Existing",
		Content:    "<p>body</p>",
		Excerpt:    "ex",
		Status:     "published",
		CoverImage: "/static/uploads/cover.jpg",
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	_, err = svc.Update("missing-slug", BlogInput{
		Title:   "Whatever",
		Content: "<p>x</p>",
		Excerpt: "x",
		Status:  "draft",
	})
	if !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}

	reloaded, err := svc.Get("existing")
	if err != nil {
		t.Fatalf("reload blog: %v", err)
	}
	if reloaded.Title != "Existing" || reloaded.CoverURL() != "/static/uploads/cover.jpg" {
		t.Fatalf("blog state changed after failed update: %+v", reloaded)
	}
	if len(blogImageRows(t, gdb, blog.ID)) != 1 {
		t.Fatalf("image rows changed after failed update")
	}
}

func TestBlogServiceDeleteRemovesEntityAndImages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	blog, err := svc.Create(BlogInput{
		Title:         "Doomed",
		Content:       "<p>body</p>",
		Excerpt:       "ex",
		Status:        "draft",
		CoverImage:    "/static/uploads/doomed.jpg",
		GalleryImages: []string{"/static/uploads/doomed-g1.jpg"},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.Delete("doomed"); err != nil {
		t.Fatalf("delete blog: %v", err)
	}

	if _, err := svc.Get("doomed"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected blog to be gone, got %v", err)
	}
	var imageCount int64
	if err := gdb.Unscoped().Model(&db.BlogImage{}).Where("blog_id = ?", blog.ID).Count(&imageCount).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if imageCount != 0 {
		t.Fatalf("expected image rows removed, got %d", imageCount)
	}

	if err := svc.Delete("doomed"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}

func TestBlogServiceIncrementViews(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	if _, err := svc.Create(BlogInput{
		Title:   "Counted",
		Content: "<p>body</p>",
		Excerpt: "ex",
		Status:  "published",
	}); err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.IncrementViews("counted"); err != nil {
		t.Fatalf("increment views: %v", err)
	}
	if err := svc.IncrementViews("counted"); err != nil {
		t.Fatalf("increment views twice: %v", err)
	}

	blog, err := svc.Get("counted")
	if err != nil {
		t.Fatalf("get blog: %v", err)
	}
	if blog.Views != 2 {
		t.Fatalf("expected 2 views, got %d", blog.Views)
	}

	if err := svc.IncrementViews("nope"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestBlogServiceListFiltersByStatusAndSearch(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBlogService(gdb, nil)

	seed := []BlogInput{
		{Title: "Go Concurrency", Content: "<p>goroutines and channels</p>", Excerpt: "go", Status: "published"},
		{Title: "Rust Ownership", Content: "<p>borrow checker</p>", Excerpt: "rust", Status: "published"},
		{Title: "Draft Notes", Content: "<p>scratch</p>", Excerpt: "notes", Status: "draft"},
	}
	for _, input := range seed {
		if _, err := svc.Create(input); err != nil {
			t.Fatalf("seed blog %q: %v", input.Title, err)
		}
	}

	published, err := svc.List(BlogFilter{Status: db.BlogStatusPublished})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if published.Total != 2 {
		t.Fatalf("expected 2 published, got %d", published.Total)
	}
	if published.PublishedCount != 2 || published.DraftCount != 1 {
		t.Fatalf("unexpected counters: published=%d draft=%d", published.PublishedCount, published.DraftCount)
	}

	// plaintext 派生自正文，搜索应命中正文词汇
	found, err := svc.List(BlogFilter{Search: "goroutines"})
	if err != nil {
		t.Fatalf("search blogs: %v", err)
	}
	if found.Total != 1 || found.Blogs[0].Slug != "go-concurrency" {
		t.Fatalf("expected goroutines search to hit go-concurrency, got %+v", found.Blogs)
	}
}
