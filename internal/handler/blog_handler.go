package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/foliolog/internal/db"
	"github.com/foliolog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type blogRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	ContentFormat string   `json:"contentFormat"`
	Plaintext     string   `json:"plaintext"`
	Excerpt       string   `json:"excerpt"`
	Status        string   `json:"status"`
	CoverImage    string   `json:"coverImage"`
	GalleryImages []string `json:"galleryImages"`
}

func (r blogRequest) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		return "content is required"
	}
	if strings.TrimSpace(r.Excerpt) == "" {
		return "excerpt is required"
	}
	if strings.TrimSpace(r.Status) == "" {
		return "status is required"
	}
	return ""
}

func (r blogRequest) toInput() service.BlogInput {
	return service.BlogInput{
		Title:         r.Title,
		Content:       r.Content,
		ContentFormat: r.ContentFormat,
		Plaintext:     r.Plaintext,
		Excerpt:       r.Excerpt,
		Status:        r.Status,
		CoverImage:    r.CoverImage,
		GalleryImages: r.GalleryImages,
	}
}

type blogView struct {
	ID        uint     `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	Plaintext string   `json:"plaintext,omitempty"`
	Excerpt   string   `json:"excerpt"`
	Status    string   `json:"status"`
	Views     uint64   `json:"views"`
	Cover     string   `json:"coverImage,omitempty"`
	Gallery   []string `json:"galleryImages,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func newBlogView(blog *db.Blog, includeContent bool) blogView {
	view := blogView{
		ID:        blog.ID,
		Slug:      blog.Slug,
		Title:     blog.Title,
		Excerpt:   blog.Excerpt,
		Status:    blog.Status,
		Views:     blog.Views,
		Cover:     blog.CoverURL(),
		Gallery:   blog.GalleryURLs(),
		CreatedAt: blog.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: blog.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if includeContent {
		view.Content = blog.Content
		view.Plaintext = blog.Plaintext
	}
	return view
}

// ListBlogs 返回公开的已发布文章列表，支持搜索与分页。
func (a *API) ListBlogs(c *gin.Context) {
	a.listBlogs(c, db.BlogStatusPublished)
}

// AdminListBlogs 返回全部文章，状态过滤由查询参数决定。
func (a *API) AdminListBlogs(c *gin.Context) {
	a.listBlogs(c, c.Query("status"))
}

func (a *API) listBlogs(c *gin.Context, status string) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("perPage"))

	result, err := a.blogs.List(service.BlogFilter{
		Search:  c.Query("search"),
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		log.Printf("list blogs: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to list blogs")
		return
	}

	views := make([]blogView, 0, len(result.Blogs))
	for i := range result.Blogs {
		views = append(views, newBlogView(&result.Blogs[i], false))
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":          views,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"totalPages":     result.TotalPages,
		"page":           result.Page,
		"perPage":        result.PerPage,
	})
}

// GetBlog 按 slug 返回单篇文章。
func (a *API) GetBlog(c *gin.Context) {
	blog, err := a.blogs.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "blog not found")
			return
		}
		log.Printf("get blog: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": newBlogView(blog, true)})
}

// CreateBlog 创建文章及其图片集合。
func (a *API) CreateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	blog, err := a.blogs.Create(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateTitle):
			respondError(c, http.StatusConflict, "a blog with this title already exists")
		case errors.Is(err, service.ErrInvalidMarkdown):
			respondError(c, http.StatusBadRequest, "content markdown could not be rendered")
		default:
			log.Printf("create blog: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to create blog")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      blog.ID,
		"slug":    blog.Slug,
		"message": "blog created",
	})
}

// UpdateBlog 更新文章并整体替换图片集合；slug 保持不变。
func (a *API) UpdateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	blog, err := a.blogs.Update(c.Param("slug"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlogNotFound):
			respondError(c, http.StatusNotFound, "blog not found")
		case errors.Is(err, service.ErrInvalidMarkdown):
			respondError(c, http.StatusBadRequest, "content markdown could not be rendered")
		default:
			log.Printf("update blog: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to update blog")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":    blog.Slug,
		"message": "blog updated",
	})
}

// DeleteBlog 删除文章、图片记录及其物理文件。
func (a *API) DeleteBlog(c *gin.Context) {
	if err := a.blogs.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "blog not found")
			return
		}
		log.Printf("delete blog: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to delete blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

// ViewBlog 为文章累加一次浏览量，同一会话内最多计一次。
func (a *API) ViewBlog(c *gin.Context) {
	a.incrementView(c, "blog", c.Param("slug"), a.blogs.IncrementViews)
}

// incrementView 执行会话去重的浏览计数：会话里已有标记则直接返回，
// 否则先写库、成功后再落标记。标记尚未持久化前的同会话并发请求可能
// 重复计数，这里不做按会话的串行化。
func (a *API) incrementView(c *gin.Context, kind, slug string, bump func(string) error) {
	session := sessions.Default(c)
	key := fmt.Sprintf("%s-%s", kind, slug)

	if flagged, ok := session.Get(key).(bool); ok && flagged {
		c.JSON(http.StatusOK, gin.H{"message": "already viewed"})
		return
	}

	if err := bump(slug); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) || errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "not found")
			return
		}
		log.Printf("increment views (%s): %v", key, err)
		respondError(c, http.StatusInternalServerError, "failed to record view")
		return
	}

	session.Set(key, true)
	if err := session.Save(); err != nil {
		log.Printf("save session (%s): %v", key, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "view recorded"})
}
