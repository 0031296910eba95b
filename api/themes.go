package api

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/gin-gonic/gin.v1"
	elastic "gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/dashboard"
)

// How many documents the annotation widgets scan and how many sample
// posts each folded bucket keeps.
const (
	annotationScanSize    = 1000
	annotationSampleLimit = 10
)

type annotationField func(raw dashboard.RawPost) string

// annotationHandler serves the folded-annotation widgets (themes,
// touchpoints, trust dimensions). Unlike the count widgets these skip
// the date filter entirely when the caller sends no date input, and
// use full-timestamp bounds when it does.
func annotationHandler(endpoint, field, payloadKey string, pick annotationField) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r WidgetRequest
		if c.Bind(&r) != nil {
			return
		}
		r.normalize()
		started := time.Now()
		engine, st := dataStores(c)
		ctx := c.Request.Context()

		dict, available, entities, err := topicLookups(ctx, st, r.TopicID)
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}

		window := r.resolveWindow(false, true)
		query := dashboard.ComposeQuery(r.toFilter(window, available, entities), dict).
			Must(elastic.NewExistsQuery(field))

		res, err := engine.Search(ctx, query, 0, annotationScanSize)
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}

		docs := []dashboard.AnnotationDoc{}
		for _, raw := range dashboard.RawHits(res) {
			docs = append(docs, dashboard.AnnotationDoc{
				Raw:  pick(raw),
				Card: dashboard.Normalize(raw),
			})
		}
		buckets := dashboard.FoldAnnotations(docs, annotationSampleLimit)
		publishQueryEvent(endpoint, r, started)

		c.JSON(http.StatusOK, gin.H{"success": true, payloadKey: buckets})
	}
}

func ThemesHandler(c *gin.Context) {
	annotationHandler("themes", "themes_sentiments", "themes",
		func(raw dashboard.RawPost) string { return raw.ThemesSentiments })(c)
}

func TouchpointsHandler(c *gin.Context) {
	annotationHandler("touchpoints", "touchpoints", "touchpoints",
		func(raw dashboard.RawPost) string { return raw.Touchpoints })(c)
}

func TrustDimensionsHandler(c *gin.Context) {
	annotationHandler("trust_dimensions", "trust_dimensions", "trust_dimensions",
		func(raw dashboard.RawPost) string { return raw.TrustDimensions })(c)
}

// annotationPostsHandler serves the drill-down endpoints: all posts
// annotated with one specific theme / touchpoint / trust dimension.
// The annotation name is mandatory.
func annotationPostsHandler(endpoint, field string, pick annotationField, name func(r PostsDetailRequest) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r PostsDetailRequest
		if c.Bind(&r) != nil {
			return
		}
		wanted := name(r)
		if wanted == "" {
			NewBadRequestError(errors.New("annotation name is required")).Abort(c)
			return
		}
		r.normalize()
		started := time.Now()
		engine, st := dataStores(c)
		ctx := c.Request.Context()

		dict, available, entities, err := topicLookups(ctx, st, r.TopicID)
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}

		window := r.resolveWindow(false, true)
		filter := r.toFilter(window, available, entities)
		if r.SourceName != "" {
			filter.Source = r.SourceName
		}
		query := dashboard.ComposeQuery(filter, dict).
			Must(elastic.NewExistsQuery(field))

		res, err := engine.Search(ctx, query, 0, annotationScanSize)
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}

		terms := categoryTerms(r.Category, dict)
		posts := []dashboard.PostCard{}
		for _, raw := range dashboard.RawHits(res) {
			if !dashboard.AnnotationMatches(pick(raw), wanted) {
				continue
			}
			posts = append(posts, dashboard.NormalizeWithTerms(raw, terms))
		}
		publishQueryEvent(endpoint, r.WidgetRequest, started)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"total":   len(posts),
			"posts":   posts,
		})
	}
}

func ThemePostsHandler(c *gin.Context) {
	annotationPostsHandler("themes/posts", "themes_sentiments",
		func(raw dashboard.RawPost) string { return raw.ThemesSentiments },
		func(r PostsDetailRequest) string { return r.Theme })(c)
}

func TouchpointPostsHandler(c *gin.Context) {
	annotationPostsHandler("touchpoints/posts", "touchpoints",
		func(raw dashboard.RawPost) string { return raw.Touchpoints },
		func(r PostsDetailRequest) string { return r.Touchpoint })(c)
}

func TrustDimensionPostsHandler(c *gin.Context) {
	annotationPostsHandler("trust_dimensions/posts", "trust_dimensions",
		func(raw dashboard.RawPost) string { return raw.TrustDimensions },
		func(r PostsDetailRequest) string { return r.Dimension })(c)
}
