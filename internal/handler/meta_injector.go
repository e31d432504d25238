package handler

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/foliolog/internal/db"
	"github.com/gin-gonic/gin"
)

// meta 占位符：前端外壳 index.html 在构建时埋入这些 token，
// 服务端在响应前按请求路径替换为站点或实体的元信息。
const (
	metaTitleToken       = "__META_TITLE__"
	metaDescriptionToken = "__META_DESCRIPTION__"
	metaKeywordsToken    = "__META_KEYWORDS__"
	metaAuthorToken      = "__META_AUTHOR__"
	metaImageToken       = "__META_IMAGE__"
	metaURLToken         = "__META_URL__"
)

// ServeShell 处理非 API 的 HTML 导航请求：读取外壳页面，注入站点级
// meta 设置；若路径命中文章或项目详情页，再以该实体的标题、摘要与
// 封面覆盖。任何查询失败都只记录日志并退回未修改的外壳。
func (a *API) ServeShell(c *gin.Context) {
	if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	shell, err := os.ReadFile(filepath.Join(a.cfg.WebRoot, "index.html"))
	if err != nil {
		log.Printf("read shell: %v", err)
		respondError(c, http.StatusNotFound, "not found")
		return
	}

	html := a.injectMeta(string(shell), c.Request.URL.Path)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (a *API) injectMeta(shell, path string) string {
	title := a.cfg.SiteName
	description := ""
	keywords := ""
	author := ""
	image := ""

	meta, err := a.sections.GetMeta()
	if err != nil {
		log.Printf("meta injection: load settings: %v", err)
	} else {
		if meta.SiteTitle != "" {
			title = meta.SiteTitle
		}
		description = meta.SiteDescription
		keywords = meta.Keywords
		author = meta.Author
		image = meta.OGImage
	}

	if slug, ok := matchDetailPath(path, "/blog/"); ok {
		if blog, err := a.blogs.Get(slug); err == nil && blog.Status == db.BlogStatusPublished {
			title = blog.Title
			description = blog.Excerpt
			if cover := blog.CoverURL(); cover != "" {
				image = cover
			}
		} else if err != nil {
			log.Printf("meta injection: blog %s: %v", slug, err)
		}
	} else if slug, ok := matchDetailPath(path, "/portfolio/"); ok {
		if project, err := a.projects.Get(slug); err == nil {
			title = project.Title
			description = project.Description
			if cover := project.CoverURL(); cover != "" {
				image = cover
			}
		} else if err != nil {
			log.Printf("meta injection: project %s: %v", slug, err)
		}
	}

	if image != "" && strings.HasPrefix(image, "/") {
		image = strings.TrimSuffix(a.cfg.SiteBaseURL, "/") + image
	}

	replacer := strings.NewReplacer(
		metaTitleToken, htmlEscape(title),
		metaDescriptionToken, htmlEscape(description),
		metaKeywordsToken, htmlEscape(keywords),
		metaAuthorToken, htmlEscape(author),
		metaImageToken, htmlEscape(image),
		metaURLToken, htmlEscape(strings.TrimSuffix(a.cfg.SiteBaseURL, "/")+path),
	)
	return replacer.Replace(shell)
}

func matchDetailPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	slug := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}

func htmlEscape(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	).Replace(s)
}
