package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sitemap 输出缓存的 sitemap.xml，缓存过期时重建。
func (a *API) Sitemap(c *gin.Context) {
	doc, err := a.sitemap.XML()
	if err != nil {
		log.Printf("build sitemap: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", doc)
}

// Feed 输出缓存的 RSS 订阅源，缓存过期时重建。
func (a *API) Feed(c *gin.Context) {
	doc, err := a.feed.XML()
	if err != nil {
		log.Printf("build rss feed: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to build feed")
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", doc)
}

// Robots 输出静态的 robots.txt，指向站点地图。
func (a *API) Robots(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/admin/\n\nSitemap: %s/sitemap.xml\n", a.cfg.SiteBaseURL)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
