package router

import (
	"net/http"

	"farejo/internal/handlers"
	"farejo/internal/services"
	"farejo/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Store    *store.Store
	Geocoder services.Geocoder
	LLM      *services.LLMService
	Mail     *services.MailService
	Images   handlers.ImageUploader
	SiteURL  string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	listingHandler := handlers.NewListingHandler(deps.Store, deps.Mail, deps.SiteURL)
	submitHandler := handlers.NewSubmitHandler(deps.Store, deps.Geocoder, deps.LLM)
	adminHandler := handlers.NewAdminHandler(deps.Store)
	apiHandler := handlers.NewAPIHandler(deps.Store, deps.Geocoder, deps.LLM, deps.Mail, deps.SiteURL)
	seoHandler := handlers.NewSEOHandler(deps.Store, deps.SiteURL)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// 公共路由 (Public Routes)
	r.GET("/", listingHandler.Home)                                  // 首页 - 最近信息
	r.GET("/listings", listingHandler.List)                          // 列表 + 地图
	r.GET("/listings/:id", listingHandler.Detail)                    // 详情页
	r.GET("/listings/:id/poster", listingHandler.Poster)             // 打印海报
	r.POST("/listings/:id/sightings", listingHandler.CreateSighting) // 提交目击记录
	r.POST("/listings/:id/reports", listingHandler.CreateReport)     // 举报

	// 发布向导 (Submission wizard)
	r.GET("/submit", submitHandler.Choose)
	r.GET("/submit/:kind", submitHandler.ShowStep)
	r.POST("/submit/:kind", submitHandler.Submit)

	// SEO
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	// 管理后台 (Admin panel, no authentication)
	admin := r.Group("/admin")
	{
		admin.GET("", adminHandler.Dashboard)
		admin.POST("/listings/:id/resolve", adminHandler.Resolve)
		admin.DELETE("/listings/:id", adminHandler.DeleteListing)
		admin.POST("/listings/:id/delete", adminHandler.DeleteListing) // 无 JS 的表单
		admin.DELETE("/reports/:id", adminHandler.DismissReport)
		admin.POST("/reports/:id/dismiss", adminHandler.DismissReport)
	}

	// JSON API
	api := r.Group("/api")
	{
		api.GET("/listings", apiHandler.ListListings)
		api.POST("/listings", apiHandler.CreateListing)
		api.GET("/listings/:id", apiHandler.GetListing)
		api.GET("/listings/:id/matches", apiHandler.Matches)
		api.POST("/listings/:id/sightings", apiHandler.CreateSighting)
		api.POST("/listings/:id/reports", apiHandler.CreateReport)
		api.GET("/map", apiHandler.Map)
		api.POST("/describe", apiHandler.Describe)

		if deps.Images != nil {
			imageHandler := handlers.NewImageHandler(deps.Images)
			api.POST("/images", imageHandler.Upload)
		}

		adminAPI := api.Group("/admin")
		adminAPI.GET("/listings", apiHandler.AdminListings)
		adminAPI.GET("/reports", apiHandler.AdminReports)
		adminAPI.PATCH("/listings/:id/status", apiHandler.UpdateStatus)
		adminAPI.DELETE("/listings/:id", apiHandler.DeleteListing)
		adminAPI.DELETE("/reports/:id", apiHandler.DismissReport)
	}
}
