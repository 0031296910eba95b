package api

import (
	"gopkg.in/gin-gonic/gin.v1"
)

func SetupRoutes(router *gin.Engine) {
	router.GET("/health_check", HealthCheckHandler)

	// The dashboard posts filter payloads; GET with query params is
	// kept for ad-hoc use.
	widget := func(path string, handler gin.HandlerFunc) {
		router.POST(path, handler)
		router.GET(path, handler)
	}

	widget("/mentions", MentionsHandler)
	widget("/mentions/count", MentionsCountHandler)

	widget("/sentiments", SentimentsHandler)
	widget("/emotions", EmotionsHandler)
	widget("/sources", SourcesHandler)
	widget("/sources/posts", SourcePostsHandler)
	widget("/timeline", TimelineHandler)
	widget("/engagement", EngagementHandler)

	widget("/themes", ThemesHandler)
	widget("/themes/posts", ThemePostsHandler)
	widget("/touchpoints", TouchpointsHandler)
	widget("/touchpoints/posts", TouchpointPostsHandler)
	widget("/trust_dimensions", TrustDimensionsHandler)
	widget("/trust_dimensions/posts", TrustDimensionPostsHandler)

	widget("/export", ExportHandler)
}
