package dashboard

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/Sirupsen/logrus"
	"golang.org/x/text/cases"
	"gopkg.in/olivere/elastic.v6"
)

// ReshapeTerms flattens a terms aggregation into key/count pairs.
// Empty and null key buckets are dropped; output is sorted by
// descending count (stable on ties).
func ReshapeTerms(agg *elastic.AggregationBucketKeyItems) []KeyCount {
	out := []KeyCount{}
	if agg == nil {
		return out
	}
	for _, bucket := range agg.Buckets {
		key := bucketKeyString(bucket.Key)
		if key == "" || key == "null" {
			continue
		}
		out = append(out, KeyCount{Key: key, Count: bucket.DocCount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// ReshapeDateHistogram flattens a date-histogram aggregation into
// plain yyyy-MM-dd buckets. Buckets outside the requested window are
// dropped: extended_bounds occasionally leaks boundary-adjacent
// buckets and the frontend plots whatever it gets.
func ReshapeDateHistogram(agg *elastic.AggregationBucketHistogramItems, window DateWindow) []DateCount {
	out := []DateCount{}
	if agg == nil {
		return out
	}
	for _, bucket := range agg.Buckets {
		date := ""
		if bucket.KeyAsString != nil {
			date = normalizeBucketDate(*bucket.KeyAsString)
		} else {
			date = time.Unix(int64(bucket.Key)/1000, 0).UTC().Format(dateLayout)
		}
		if date == "" {
			continue
		}
		if window.GTE != "" && date < window.GTE[:minInt(len(window.GTE), len(dateLayout))] {
			continue
		}
		if window.LTE != "" && date > window.LTE[:minInt(len(window.LTE), len(dateLayout))] {
			continue
		}
		out = append(out, DateCount{Date: date, Count: bucket.DocCount})
	}
	return out
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func normalizeBucketDate(keyAsString string) string {
	if len(keyAsString) >= len(dateLayout) {
		return keyAsString[:len(dateLayout)]
	}
	return keyAsString
}

// AnnotationDoc pairs one document's raw JSON-encoded annotation field
// (themes_sentiments / touchpoints / trust_dimensions) with its
// already-normalized card.
type AnnotationDoc struct {
	Raw  string
	Card PostCard
}

var foldCaser = cases.Fold()

// FoldAnnotations parses the embedded annotation JSON of each document
// and groups by annotation name. Semantically duplicate spellings
// (whitespace, case) merge into one bucket: counts sum, sample posts
// concatenate up to sampleLimit. A document whose JSON does not parse
// is logged and skipped; one bad record never aborts the aggregation.
func FoldAnnotations(docs []AnnotationDoc, sampleLimit int) []AnnotationBucket {
	type group struct {
		name  string
		count int
		posts []PostCard
	}
	groups := map[string]*group{}
	order := []string{}

	for _, doc := range docs {
		if strings.TrimSpace(doc.Raw) == "" {
			continue
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(doc.Raw), &parsed); err != nil {
			log.Warnf("FoldAnnotations: skipping malformed annotation %q: %s", truncate(doc.Raw, 64), err)
			continue
		}
		names := make([]string, 0, len(parsed))
		for name := range parsed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			display := collapseWhitespace(name)
			if display == "" {
				continue
			}
			key := foldCaser.String(display)
			g, ok := groups[key]
			if !ok {
				g = &group{name: display}
				groups[key] = g
				order = append(order, key)
			}
			g.count++
			if sampleLimit <= 0 || len(g.posts) < sampleLimit {
				g.posts = append(g.posts, doc.Card)
			}
		}
	}

	out := make([]AnnotationBucket, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		out = append(out, AnnotationBucket{Name: g.name, Count: g.count, Posts: g.posts})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// AnnotationMatches reports whether a raw annotation field mentions
// the wanted name, under the same normalization FoldAnnotations groups
// by. Used by the post-detail endpoints.
func AnnotationMatches(raw, wanted string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return false
	}
	target := foldCaser.String(collapseWhitespace(wanted))
	for name := range parsed {
		if foldCaser.String(collapseWhitespace(name)) == target {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}

func bucketKeyString(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", k)
	}
}
