package api

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/gin-gonic/gin.v1"
	elastic "gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/dashboard"
	"github.com/pulseboard/listening-backend/events"
	"github.com/pulseboard/listening-backend/store"
)

func dataStores(c *gin.Context) (*dashboard.ESEngine, *store.Store) {
	engine := c.MustGet("ES_ENGINE").(*dashboard.ESEngine)
	st := c.MustGet("STORE").(*store.Store)
	return engine, st
}

// topicLookups resolves the per-topic read-only inputs every composer
// call needs: the category dictionary, the platform allow-list and the
// tracked entity names for the Entity/Public split.
func topicLookups(ctx context.Context, st *store.Store, topicID int64) (dashboard.CategoryDictionary, []string, []string, error) {
	dict, err := st.GetCategories(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	available, err := st.GetAvailableSources(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	entities, err := st.GetTopicEntities(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	return dict, available, entities, nil
}

func publishQueryEvent(endpoint string, r WidgetRequest, started time.Time) {
	events.Publish(events.QueryEvent{
		Endpoint:   endpoint,
		TopicID:    r.TopicID,
		Category:   r.Category,
		Source:     r.Source,
		TookMillis: time.Since(started).Nanoseconds() / int64(time.Millisecond),
	})
}

// MentionsHandler returns one page of post cards matching the filter,
// newest first, with matched_terms populated.
func MentionsHandler(c *gin.Context) {
	var r MentionsRequest
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

	from, size := r.limits()
	res, err := engine.Search(ctx, query, from, size)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	cards := dashboard.Hits(res, categoryTerms(r.Category, dict))
	publishQueryEvent("mentions", r.WidgetRequest, started)

	total := int64(0)
	if res.Hits != nil {
		total = res.Hits.TotalHits
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"total":    total,
		"mentions": cards,
	})
}

// MentionsCountHandler returns the total mention count plus the
// per-sentiment breakdown. Count and aggregation are independent and
// run concurrently.
func MentionsCountHandler(c *gin.Context) {
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

	var total int64
	var res *elastic.SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = engine.Count(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		res, err = engine.Aggregate(gctx, query, map[string]elastic.Aggregation{
			"sentiments": elastic.NewTermsAggregation().Field("predicted_sentiment_value.keyword").Size(10),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	counts := gin.H{"Positive": int64(0), "Negative": int64(0), "Neutral": int64(0)}
	if agg, found := res.Aggregations.Terms("sentiments"); found {
		for _, kc := range dashboard.ReshapeTerms(agg) {
			counts[kc.Key] = kc.Count
		}
	}
	publishQueryEvent("mentions/count", r, started)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"total":      total,
		"sentiments": counts,
	})
}
