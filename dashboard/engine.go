package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	elastic "gopkg.in/olivere/elastic.v6"
)

type ESManager struct {
	esc *elastic.Client
	url string
}

func MakeESManager(url string) *ESManager {
	esManager := &ESManager{url: url}
	esManager.GetClient()
	return esManager
}

func (esManager *ESManager) GetClient() (*elastic.Client, error) {
	var err error
	if esManager.esc == nil {
		log.Info("Trying to set up new connection to ElasticSearch")
		esManager.esc, err = elastic.NewClient(
			elastic.SetURL(esManager.url),
			elastic.SetSniff(false),
			elastic.SetHealthcheckInterval(10*time.Second),
			elastic.SetErrorLog(log.StandardLogger()),
		)
	}
	return esManager.esc, err
}

func (esManager *ESManager) Stop() {
	if esManager.esc != nil {
		esManager.esc.Stop()
	}
}

// ESEngine executes composed dashboard queries against the posts
// index. One engine is shared by all requests; it holds no per-request
// state.
type ESEngine struct {
	esc     *elastic.Client
	index   string
	timeout time.Duration
}

func NewESEngine(esc *elastic.Client) *ESEngine {
	viper.SetDefault("elasticsearch.timeout", 30*time.Second)
	return &ESEngine{
		esc:     esc,
		index:   viper.GetString("elasticsearch.posts-index"),
		timeout: viper.GetDuration("elasticsearch.timeout"),
	}
}

func (e *ESEngine) Search(ctx context.Context, query elastic.Query, from int, size int) (*elastic.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	res, err := e.esc.Search().
		Index(e.index).
		Query(query).
		Sort("p_created_time", false).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "ES search")
	}
	return res, nil
}

func (e *ESEngine) Count(ctx context.Context, query elastic.Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	count, err := e.esc.Count(e.index).Query(query).Do(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "ES count")
	}
	return count, nil
}

// Aggregate runs a zero-hits search carrying the given aggregations.
func (e *ESEngine) Aggregate(ctx context.Context, query elastic.Query, aggs map[string]elastic.Aggregation) (*elastic.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	svc := e.esc.Search().Index(e.index).Query(query).Size(0)
	for name, agg := range aggs {
		svc = svc.Aggregation(name, agg)
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "ES aggregate")
	}
	return res, nil
}

// Scroll pages through every hit of the query, invoking fn per page
// until the cursor is exhausted, then releases the cursor.
func (e *ESEngine) Scroll(ctx context.Context, query elastic.Query, pageSize int, fn func(hits []*elastic.SearchHit) error) error {
	scroll := e.esc.Scroll(e.index).Query(query).Size(pageSize)
	defer func() {
		if err := scroll.Clear(context.Background()); err != nil {
			log.Warnf("ES scroll clear: %s", err)
		}
	}()

	for {
		res, err := scroll.Do(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "ES scroll")
		}
		if res.Hits == nil || len(res.Hits.Hits) == 0 {
			return nil
		}
		if err := fn(res.Hits.Hits); err != nil {
			return err
		}
	}
}

// SearchPerPlatform issues one query per platform concurrently and
// joins the results. Each platform produces a disjoint slice of the
// response, so there is no state to race on beyond the map writes.
func (e *ESEngine) SearchPerPlatform(ctx context.Context, platforms []string, build func(platform string) elastic.Query, size int) (map[string]*elastic.SearchResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	results := make(map[string]*elastic.SearchResult, len(platforms))

	for i := range platforms {
		platform := platforms[i]
		g.Go(func() error {
			res, err := e.Search(ctx, build(platform), 0, size)
			if err != nil {
				return errors.Wrapf(err, "platform %s", platform)
			}
			mu.Lock()
			results[platform] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// IsTimeout tells whether an error from the search service is a
// timeout. Engagement summaries substitute zeroed aggregations on
// timeout instead of failing the whole request.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	cause := errors.Cause(err)
	if cause == context.DeadlineExceeded {
		return true
	}
	return elastic.IsTimeout(cause)
}

// UnmarshalHit decodes one hit's _source.
func UnmarshalHit(hit *elastic.SearchHit) (RawPost, error) {
	var raw RawPost
	if hit.Source == nil {
		return raw, errors.New("hit without _source")
	}
	if err := json.Unmarshal(*hit.Source, &raw); err != nil {
		return raw, errors.Wrap(err, "unmarshal hit")
	}
	return raw, nil
}

// Hits extracts and normalizes every hit of a result, skipping (and
// logging) documents that fail to decode.
func Hits(res *elastic.SearchResult, terms []string) []PostCard {
	cards := []PostCard{}
	if res == nil || res.Hits == nil {
		return cards
	}
	for _, hit := range res.Hits.Hits {
		raw, err := UnmarshalHit(hit)
		if err != nil {
			log.Warnf("Hits: %s", err)
			continue
		}
		if terms != nil {
			cards = append(cards, NormalizeWithTerms(raw, terms))
		} else {
			cards = append(cards, Normalize(raw))
		}
	}
	return cards
}

// RawHits decodes hits without normalization, for the aggregation
// paths that need the raw annotation fields.
func RawHits(res *elastic.SearchResult) []RawPost {
	raws := []RawPost{}
	if res == nil || res.Hits == nil {
		return raws
	}
	for _, hit := range res.Hits.Hits {
		raw, err := UnmarshalHit(hit)
		if err != nil {
			log.Warnf("RawHits: %s", err)
			continue
		}
		raws = append(raws, raw)
	}
	return raws
}
