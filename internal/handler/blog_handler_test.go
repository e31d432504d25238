package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/foliolog/internal/db"
)

func blogPayload(title string) map[string]any {
	return map[string]any{
		"title":         title,
		"content":       "<p>body</p>",
		"excerpt":       "short excerpt",
		"status":        "published",
		"coverImage":    "/static/uploads/cover.jpg",
		"galleryImages": []string{"/static/uploads/g1.jpg"},
	}
}

func TestCreateBlogValidation(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/admin/blogs", api.CreateBlog)

	payload := blogPayload("Valid Title")
	payload["excerpt"] = "   "

	w := doJSON(t, engine, http.MethodPost, "/api/admin/blogs", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["error"] != "excerpt is required" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestCreateBlogAndDuplicateConflict(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/admin/blogs", api.CreateBlog)

	w := doJSON(t, engine, http.MethodPost, "/api/admin/blogs", blogPayload("My First Post"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["slug"] != "my-first-post" {
		t.Fatalf("unexpected slug: %v", body["slug"])
	}

	// 同名标题映射到同一 slug，必须拒绝
	w = doJSON(t, engine, http.MethodPost, "/api/admin/blogs", blogPayload("My First Post"))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateBlogNotFound(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.PUT("/api/admin/blogs/:slug", api.UpdateBlog)

	w := doJSON(t, engine, http.MethodPut, "/api/admin/blogs/missing", blogPayload("Whatever"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetBlogIncludesContentAndImages(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/admin/blogs", api.CreateBlog)
	engine.GET("/api/blogs/:slug", api.GetBlog)

	if w := doJSON(t, engine, http.MethodPost, "/api/admin/blogs", blogPayload("Detail Post")); w.Code != http.StatusCreated {
		t.Fatalf("seed blog: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, engine, http.MethodGet, "/api/blogs/detail-post", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	blog, ok := body["blog"].(map[string]any)
	if !ok {
		t.Fatalf("missing blog object: %s", w.Body.String())
	}
	if blog["coverImage"] != "/static/uploads/cover.jpg" {
		t.Fatalf("unexpected cover: %v", blog["coverImage"])
	}
	if !strings.Contains(blog["content"].(string), "<p>body</p>") {
		t.Fatalf("content missing from detail view: %v", blog["content"])
	}
}

func TestViewBlogCountsOncePerSession(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/admin/blogs", api.CreateBlog)
	engine.POST("/api/blogs/:slug/view", api.ViewBlog)

	if w := doJSON(t, engine, http.MethodPost, "/api/admin/blogs", blogPayload("Viewed Post")); w.Code != http.StatusCreated {
		t.Fatalf("seed blog: %d %s", w.Code, w.Body.String())
	}

	first := doJSON(t, engine, http.MethodPost, "/api/blogs/viewed-post/view", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first view: %d %s", first.Code, first.Body.String())
	}
	if body := decodeBody(t, first); body["message"] != "view recorded" {
		t.Fatalf("unexpected first view message: %v", body["message"])
	}

	// 带回会话 cookie 的第二次请求不再计数
	second := doJSON(t, engine, http.MethodPost, "/api/blogs/viewed-post/view", nil, first.Result().Cookies()...)
	if second.Code != http.StatusOK {
		t.Fatalf("second view: %d %s", second.Code, second.Body.String())
	}
	if body := decodeBody(t, second); body["message"] != "already viewed" {
		t.Fatalf("unexpected second view message: %v", body["message"])
	}

	var blog db.Blog
	if err := api.DB().Where("slug = ?", "viewed-post").First(&blog).Error; err != nil {
		t.Fatalf("load blog: %v", err)
	}
	if blog.Views != 1 {
		t.Fatalf("expected 1 view after same-session repeat, got %d", blog.Views)
	}

	// 新会话（不带 cookie）独立计数
	fresh := doJSON(t, engine, http.MethodPost, "/api/blogs/viewed-post/view", nil)
	if fresh.Code != http.StatusOK {
		t.Fatalf("fresh session view: %d %s", fresh.Code, fresh.Body.String())
	}
	if err := api.DB().Where("slug = ?", "viewed-post").First(&blog).Error; err != nil {
		t.Fatalf("reload blog: %v", err)
	}
	if blog.Views != 2 {
		t.Fatalf("expected 2 views after fresh session, got %d", blog.Views)
	}
}

func TestViewBlogUnknownSlug(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/blogs/:slug/view", api.ViewBlog)

	w := doJSON(t, engine, http.MethodPost, "/api/blogs/no-such-post/view", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
