package routers

import (
	"github.com/GrainArc/TrackArt/services"
	"github.com/GrainArc/TrackArt/views"
	"github.com/gin-gonic/gin"
)

func ArtRouters(r *gin.Engine, art *services.ArtService, export *services.ExportService) {
	artHandler := views.NewArtHandler(art, export)
	liveHandler := views.NewLiveEditHandler(art)
	artRouter := r.Group("/art")
	{
		artRouter.POST("/session/svg", artHandler.CreateFromSvg)
		artRouter.POST("/session/gpx", artHandler.CreateFromGpx)
		artRouter.GET("/session/:id", artHandler.GetSession)
		artRouter.DELETE("/session/:id", artHandler.CloseSession)

		artRouter.POST("/session/:id/length", artHandler.SetLength)
		artRouter.POST("/session/:id/rotation", artHandler.SetRotation)
		artRouter.POST("/session/:id/stretch", artHandler.SetStretch)
		artRouter.POST("/session/:id/recenter", artHandler.Recenter)
		artRouter.POST("/session/:id/translate", artHandler.Translate)
		artRouter.POST("/session/:id/drag", artHandler.Drag)
		artRouter.POST("/session/:id/state", artHandler.SetState)
		artRouter.POST("/session/:id/reset", artHandler.Reset)

		artRouter.GET("/session/:id/geojson", artHandler.GeoJSON)
		artRouter.GET("/session/:id/gpx", artHandler.DownloadGpx)
		artRouter.GET("/session/:id/bundle", artHandler.DownloadBundle)
		artRouter.POST("/session/:id/save", artHandler.Save)
		artRouter.GET("/session/:id/ws", liveHandler.LiveEdit)

		artRouter.GET("/projects", artHandler.ListProjects)
		artRouter.POST("/projects/:id/open", artHandler.OpenProject)
		artRouter.DELETE("/projects/:id", artHandler.DeleteProject)
	}
}

// NewEngine 创建 gin 引擎并注册全部路由
func NewEngine(art *services.ArtService, export *services.ExportService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = 16 << 20
	ArtRouters(r, art, export)
	return r
}
