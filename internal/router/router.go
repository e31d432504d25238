package router

import (
	"net/http"

	"github.com/foliolog/internal/config"
	"github.com/foliolog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// 配置会话中间件：承载浏览计数的会话标记
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	r.Use(sessions.Sessions("foliolog_session", store))

	api := handler.NewAPI(gdb, cfg)

	// 静态文件服务（上传目录在其下）
	r.Static("/static", "./web/static")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// SEO 产物
	r.GET("/sitemap.xml", api.Sitemap)
	r.GET("/rss", api.Feed)
	r.GET("/robots.txt", api.Robots)

	// 公开内容接口
	public := r.Group("/api")
	{
		public.GET("/blogs", api.ListBlogs)
		public.GET("/blogs/:slug", api.GetBlog)
		public.POST("/blogs/:slug/view", api.ViewBlog)

		public.GET("/projects", api.ListProjects)
		public.GET("/projects/:slug", api.GetProject)
		public.POST("/projects/:slug/view", api.ViewProject)

		public.GET("/home", api.GetHome)
		public.GET("/about", api.GetAbout)
		public.GET("/contact", api.GetContactSection)
		public.GET("/navbar", api.GetNavbar)
		public.GET("/footer", api.GetFooter)
		public.GET("/meta", api.GetMeta)

		public.POST("/contact/messages", api.CreateContactMessage)

		public.POST("/admin/login", api.Login)
	}

	// 需要认证的后台接口
	admin := r.Group("/api/admin")
	admin.Use(api.AuthRequired())
	{
		admin.POST("/logout", api.Logout)
		admin.GET("/me", api.Me)

		admin.GET("/blogs", api.AdminListBlogs)
		admin.GET("/blogs/:slug", api.GetBlog)
		admin.POST("/blogs", api.CreateBlog)
		admin.PUT("/blogs/:slug", api.UpdateBlog)
		admin.DELETE("/blogs/:slug", api.DeleteBlog)

		admin.GET("/projects", api.ListProjects)
		admin.GET("/projects/:slug", api.GetProject)
		admin.POST("/projects", api.CreateProject)
		admin.PUT("/projects/:slug", api.UpdateProject)
		admin.DELETE("/projects/:slug", api.DeleteProject)

		admin.PUT("/home", api.UpdateHome)
		admin.PUT("/about", api.UpdateAbout)
		admin.PUT("/contact", api.UpdateContactSection)
		admin.PUT("/navbar", api.UpdateNavbar)
		admin.PUT("/footer", api.UpdateFooter)
		admin.PUT("/meta", api.UpdateMeta)

		admin.GET("/messages", api.ListContactMessages)
		admin.PUT("/messages/:id/read", api.MarkContactMessageRead)
		admin.DELETE("/messages/:id", api.DeleteContactMessage)

		admin.POST("/upload", api.UploadImage)

		// 用户管理仅限管理员
		users := admin.Group("/users")
		users.Use(api.AdminOnly())
		{
			users.GET("", api.ListUsers)
			users.POST("", api.CreateUser)
			users.PUT("/:id", api.UpdateUser)
			users.DELETE("/:id", api.DeleteUser)
		}
	}

	// 其余 HTML 导航请求交给 meta 注入外壳
	r.NoRoute(api.ServeShell)

	return r
}
