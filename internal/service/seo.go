package service

import (
	"encoding/xml"
	"strings"
	"sync"
	"time"
)

// seoCacheTTL 是站点地图与 RSS 的缓存窗口：一小时内的请求直接返回缓存文档。
const seoCacheTTL = time.Hour

// seoCache 持有一份已序列化的 XML 文档与构建时间。
// 检查-重建序列由互斥锁保护；重建失败不触碰现有缓存，下次请求重试。
type seoCache struct {
	mu      sync.Mutex
	doc     []byte
	builtAt time.Time
	now     func() time.Time
}

func (c *seoCache) get(build func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc != nil && c.now().Sub(c.builtAt) < seoCacheTTL {
		return c.doc, nil
	}

	doc, err := build()
	if err != nil {
		return nil, err
	}
	c.doc = doc
	c.builtAt = c.now()
	return doc, nil
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// SitemapBuilder 按需重建并缓存 sitemap.xml。
type SitemapBuilder struct {
	cache    seoCache
	baseURL  string
	blogs    *BlogService
	projects *ProjectService
}

// NewSitemapBuilder creates a SitemapBuilder serving URLs under baseURL.
func NewSitemapBuilder(blogs *BlogService, projects *ProjectService, baseURL string) *SitemapBuilder {
	return &SitemapBuilder{
		cache:    seoCache{now: time.Now},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		blogs:    blogs,
		projects: projects,
	}
}

// XML returns the cached sitemap document, rebuilding it when stale.
func (b *SitemapBuilder) XML() ([]byte, error) {
	return b.cache.get(b.build)
}

func (b *SitemapBuilder) build() ([]byte, error) {
	blogs, err := b.blogs.ListPublished()
	if err != nil {
		return nil, err
	}
	projects, err := b.projects.ListAll()
	if err != nil {
		return nil, err
	}

	urls := []sitemapURL{
		{Loc: b.baseURL + "/", ChangeFreq: "weekly", Priority: 1.0},
		{Loc: b.baseURL + "/blog", ChangeFreq: "daily", Priority: 0.9},
		{Loc: b.baseURL + "/portfolio", ChangeFreq: "weekly", Priority: 0.9},
		{Loc: b.baseURL + "/about", ChangeFreq: "monthly", Priority: 0.5},
		{Loc: b.baseURL + "/contact", ChangeFreq: "monthly", Priority: 0.5},
	}
	for _, blog := range blogs {
		urls = append(urls, sitemapURL{
			Loc:        b.baseURL + "/blog/" + blog.Slug,
			LastMod:    blog.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   0.8,
		})
	}
	for _, project := range projects {
		urls = append(urls, sitemapURL{
			Loc:        b.baseURL + "/portfolio/" + project.Slug,
			LastMod:    project.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   0.7,
		})
	}

	return marshalXMLDoc(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Author      string        `xml:"author,omitempty"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// FeedBuilder 按需重建并缓存 RSS 订阅源。
type FeedBuilder struct {
	cache    seoCache
	baseURL  string
	blogs    *BlogService
	sections *SectionService
}

// NewFeedBuilder creates a FeedBuilder serving links under baseURL.
func NewFeedBuilder(blogs *BlogService, sections *SectionService, baseURL string) *FeedBuilder {
	return &FeedBuilder{
		cache:    seoCache{now: time.Now},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		blogs:    blogs,
		sections: sections,
	}
}

// XML returns the cached RSS document, rebuilding it when stale.
func (b *FeedBuilder) XML() ([]byte, error) {
	return b.cache.get(b.build)
}

func (b *FeedBuilder) build() ([]byte, error) {
	blogs, err := b.blogs.ListPublished()
	if err != nil {
		return nil, err
	}
	meta, err := b.sections.GetMeta()
	if err != nil {
		return nil, err
	}

	items := make([]rssItem, 0, len(blogs))
	for i := range blogs {
		blog := &blogs[i]
		link := b.baseURL + "/blog/" + blog.Slug
		item := rssItem{
			Title:       blog.Title,
			Link:        link,
			Description: blog.Excerpt,
			Author:      meta.Author,
			PubDate:     blog.CreatedAt.UTC().Format(time.RFC1123Z),
			GUID:        link,
		}
		if cover := blog.CoverURL(); cover != "" {
			item.Enclosure = &rssEnclosure{URL: b.baseURL + cover, Type: "image/jpeg"}
		}
		items = append(items, item)
	}

	return marshalXMLDoc(rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       meta.SiteTitle,
			Link:        b.baseURL,
			Description: meta.SiteDescription,
			Items:       items,
		},
	})
}

func marshalXMLDoc(v interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
