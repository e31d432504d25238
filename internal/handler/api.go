package handler

import (
	"github.com/foliolog/internal/config"
	"github.com/foliolog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	cfg      config.AppConfig
	blogs    *service.BlogService
	projects *service.ProjectService
	sections *service.SectionService
	contact  *service.ContactService
	users    *service.UserService
	sitemap  *service.SitemapBuilder
	feed     *service.FeedBuilder
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	files := service.NewFileCleaner(cfg.UploadDir, cfg.UploadURLPath)
	blogs := service.NewBlogService(gdb, files)
	projects := service.NewProjectService(gdb, files)
	sections := service.NewSectionService(gdb)

	return &API{
		db:       gdb,
		cfg:      cfg,
		blogs:    blogs,
		projects: projects,
		sections: sections,
		contact:  service.NewContactService(gdb),
		users:    service.NewUserService(gdb),
		sitemap:  service.NewSitemapBuilder(blogs, projects, cfg.SiteBaseURL),
		feed:     service.NewFeedBuilder(blogs, sections, cfg.SiteBaseURL),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
