package api

import (
	"net/http"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gin-gonic/gin.v1"
	elastic "gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/dashboard"
)

const distributionSize = 50

// distributionHandler serves the single-terms-aggregation widgets
// (sentiment and emotion distributions).
func distributionHandler(endpoint, field, payloadKey string) gin.HandlerFunc {
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

		window := r.resolveWindow(true, false)
		query := dashboard.ComposeQuery(r.toFilter(window, available, entities), dict)

		res, err := engine.Aggregate(ctx, query, map[string]elastic.Aggregation{
			"distribution": elastic.NewTermsAggregation().Field(field).Size(distributionSize),
		})
		if err != nil {
			NewInternalError(err).Abort(c)
			return
		}

		buckets := []dashboard.KeyCount{}
		if agg, found := res.Aggregations.Terms("distribution"); found {
			buckets = dashboard.ReshapeTerms(agg)
		}
		publishQueryEvent(endpoint, r, started)

		c.JSON(http.StatusOK, gin.H{"success": true, payloadKey: buckets})
	}
}

func SentimentsHandler(c *gin.Context) {
	distributionHandler("sentiments", "predicted_sentiment_value.keyword", "sentiments")(c)
}

func EmotionsHandler(c *gin.Context) {
	distributionHandler("emotions", "llm_emotion.keyword", "emotions")(c)
}

const sourceSampleSize = 5

// SourcesHandler returns per-platform mention counts and a small
// sample of posts per detected platform. Platform samples are
// independent queries issued concurrently.
func SourcesHandler(c *gin.Context) {
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

	window := r.resolveWindow(true, false)
	filter := r.toFilter(window, available, entities)
	query := dashboard.ComposeQuery(filter, dict)

	res, err := engine.Aggregate(ctx, query, map[string]elastic.Aggregation{
		"sources": elastic.NewTermsAggregation().Field("source.keyword").Size(distributionSize),
	})
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	counts := []dashboard.KeyCount{}
	if agg, found := res.Aggregations.Terms("sources"); found {
		counts = dashboard.ReshapeTerms(agg)
	}

	platforms := make([]string, len(counts))
	for i, kc := range counts {
		platforms[i] = kc.Key
	}

	samples, err := engine.SearchPerPlatform(ctx, platforms, func(platform string) elastic.Query {
		platformFilter := filter
		platformFilter.Source = platform
		return dashboard.ComposeQuery(platformFilter, dict)
	}, sourceSampleSize)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	terms := categoryTerms(r.Category, dict)
	posts := make(map[string][]dashboard.PostCard, len(samples))
	for platform, sres := range samples {
		posts[platform] = dashboard.Hits(sres, terms)
	}
	publishQueryEvent("sources", r, started)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"counts":  counts,
		"posts":   posts,
	})
}

// SourcePostsHandler drills into every mention of one platform. The
// platform name is mandatory.
func SourcePostsHandler(c *gin.Context) {
	var r PostsDetailRequest
	if c.Bind(&r) != nil {
		return
	}
	if r.SourceName == "" {
		NewBadRequestError(errors.New("sourceName is required")).Abort(c)
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

	window := r.resolveWindow(true, false)
	filter := r.toFilter(window, available, entities)
	filter.Source = r.SourceName
	query := dashboard.ComposeQuery(filter, dict)

	from, size := MentionsRequest{Page: r.Page, PageSize: r.PageSize}.limits()
	res, err := engine.Search(ctx, query, from, size)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	posts := dashboard.Hits(res, categoryTerms(r.Category, dict))
	publishQueryEvent("sources/posts", r.WidgetRequest, started)

	total := int64(0)
	if res.Hits != nil {
		total = res.Hits.TotalHits
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"posts":   posts,
	})
}

// TimelineHandler returns the daily mention histogram for the
// requested window together with the immediately preceding period of
// equal length. The two queries are independent and run concurrently.
func TimelineHandler(c *gin.Context) {
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

	window := r.resolveWindow(true, false)
	previous := previousWindow(*window)

	histogram := func(w dashboard.DateWindow) (elastic.Aggregation, elastic.Query) {
		filter := r.toFilter(&w, available, entities)
		agg := elastic.NewDateHistogramAggregation().
			Field("p_created_time").
			Interval("day").
			Format("yyyy-MM-dd").
			MinDocCount(0).
			ExtendedBounds(w.GTE, w.LTE)
		return agg, dashboard.ComposeQuery(filter, dict)
	}

	var current, comparison []dashboard.DateCount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agg, query := histogram(*window)
		res, err := engine.Aggregate(gctx, query, map[string]elastic.Aggregation{"daily": agg})
		if err != nil {
			return err
		}
		if buckets, found := res.Aggregations.DateHistogram("daily"); found {
			current = dashboard.ReshapeDateHistogram(buckets, *window)
		}
		return nil
	})
	g.Go(func() error {
		agg, query := histogram(previous)
		res, err := engine.Aggregate(gctx, query, map[string]elastic.Aggregation{"daily": agg})
		if err != nil {
			return err
		}
		if buckets, found := res.Aggregations.DateHistogram("daily"); found {
			comparison = dashboard.ReshapeDateHistogram(buckets, previous)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		NewInternalError(err).Abort(c)
		return
	}
	publishQueryEvent("timeline", r, started)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"timeline":   current,
		"comparison": comparison,
	})
}

// previousWindow shifts a window back by its own length.
func previousWindow(w dashboard.DateWindow) dashboard.DateWindow {
	const layout = "2006-01-02"
	gte, err1 := time.Parse(layout, w.GTE)
	lte, err2 := time.Parse(layout, w.LTE)
	if err1 != nil || err2 != nil {
		return w
	}
	length := lte.Sub(gte) + 24*time.Hour
	return dashboard.DateWindow{
		GTE: gte.Add(-length).Format(layout),
		LTE: lte.Add(-length).Format(layout),
	}
}

var engagementFields = map[string]string{
	"likes":       "p_likes",
	"shares":      "p_shares",
	"comments":    "p_comments",
	"engagements": "p_engagement",
}

// EngagementHandler sums the engagement metrics over the filtered
// window. On aggregation timeout a zero-filled summary is substituted
// so the dashboard can still render.
func EngagementHandler(c *gin.Context) {
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

	window := r.resolveWindow(true, false)
	query := dashboard.ComposeQuery(r.toFilter(window, available, entities), dict)

	aggs := make(map[string]elastic.Aggregation, len(engagementFields))
	for name, field := range engagementFields {
		aggs[name] = elastic.NewSumAggregation().Field(field)
	}

	sums := gin.H{}
	res, err := engine.Aggregate(ctx, query, aggs)
	if err != nil {
		if !dashboard.IsTimeout(err) {
			NewInternalError(err).Abort(c)
			return
		}
		log.Warnf("EngagementHandler: aggregation timeout, substituting zeros: %s", err)
		for name := range engagementFields {
			sums[name] = int64(0)
		}
	} else {
		for name := range engagementFields {
			sums[name] = int64(0)
			if agg, found := res.Aggregations.Sum(name); found && agg.Value != nil {
				sums[name] = int64(*agg.Value)
			}
		}
	}
	publishQueryEvent("engagement", r, started)

	c.JSON(http.StatusOK, gin.H{"success": true, "engagement": sums})
}
