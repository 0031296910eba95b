package dashboard

import (
	"testing"

	"github.com/stretchr/testify/suite"
	elastic "gopkg.in/olivere/elastic.v6"
)

type AggregationsSuite struct {
	suite.Suite
}

func TestAggregations(t *testing.T) {
	suite.Run(t, new(AggregationsSuite))
}

func termsAgg(pairs ...interface{}) *elastic.AggregationBucketKeyItems {
	agg := &elastic.AggregationBucketKeyItems{}
	for i := 0; i < len(pairs); i += 2 {
		agg.Buckets = append(agg.Buckets, &elastic.AggregationBucketKeyItem{
			Key:      pairs[i],
			DocCount: int64(pairs[i+1].(int)),
		})
	}
	return agg
}

func (suite *AggregationsSuite) TestReshapeTerms() {
	out := ReshapeTerms(termsAgg("Twitter", 3, "Facebook", 10, "", 7, "null", 2))
	suite.Equal([]KeyCount{
		{Key: "Facebook", Count: 10},
		{Key: "Twitter", Count: 3},
	}, out)

	suite.Empty(ReshapeTerms(nil))
	suite.Empty(ReshapeTerms(termsAgg()))
}

func (suite *AggregationsSuite) TestReshapeTermsStableOnTies() {
	out := ReshapeTerms(termsAgg("b", 5, "a", 5, "c", 5))
	suite.Equal([]KeyCount{{Key: "b", Count: 5}, {Key: "a", Count: 5}, {Key: "c", Count: 5}}, out)
}

func histAgg(buckets ...interface{}) *elastic.AggregationBucketHistogramItems {
	agg := &elastic.AggregationBucketHistogramItems{}
	for i := 0; i < len(buckets); i += 2 {
		date := buckets[i].(string)
		agg.Buckets = append(agg.Buckets, &elastic.AggregationBucketHistogramItem{
			KeyAsString: &date,
			DocCount:    int64(buckets[i+1].(int)),
		})
	}
	return agg
}

func (suite *AggregationsSuite) TestReshapeDateHistogramClampsToWindow() {
	window := DateWindow{GTE: "2024-06-03", LTE: "2024-06-05"}
	out := ReshapeDateHistogram(histAgg(
		"2024-06-02", 1,
		"2024-06-03", 2,
		"2024-06-04", 0,
		"2024-06-05", 4,
		"2024-06-06", 8,
	), window)
	suite.Equal([]DateCount{
		{Date: "2024-06-03", Count: 2},
		{Date: "2024-06-04", Count: 0},
		{Date: "2024-06-05", Count: 4},
	}, out)
}

func (suite *AggregationsSuite) TestReshapeDateHistogramTimestampKeys() {
	// Full ISO keys and full-timestamp bounds clamp on the day part.
	window := DateWindow{GTE: "2024-06-03T00:00:00.000Z", LTE: "2024-06-03T23:59:59.999Z"}
	out := ReshapeDateHistogram(histAgg("2024-06-03T00:00:00.000Z", 5), window)
	suite.Equal([]DateCount{{Date: "2024-06-03", Count: 5}}, out)
}

func (suite *AggregationsSuite) TestReshapeDateHistogramEpochKeys() {
	agg := &elastic.AggregationBucketHistogramItems{
		Buckets: []*elastic.AggregationBucketHistogramItem{
			// 2024-06-04T00:00:00Z in epoch millis.
			{Key: 1717459200000, DocCount: 3},
		},
	}
	out := ReshapeDateHistogram(agg, DateWindow{GTE: "2024-06-01", LTE: "2024-06-10"})
	suite.Equal([]DateCount{{Date: "2024-06-04", Count: 3}}, out)
}

func card(source string) PostCard {
	return PostCard{Source: source}
}

func (suite *AggregationsSuite) TestFoldAnnotationsMergesSpellings() {
	docs := []AnnotationDoc{
		{Raw: `{"Room Quality": "Positive"}`, Card: card("a")},
		{Raw: `{"room  quality": "Negative"}`, Card: card("b")},
		{Raw: `{"ROOM QUALITY": "Neutral", "Service": "Positive"}`, Card: card("c")},
	}
	out := FoldAnnotations(docs, 10)

	suite.Require().Len(out, 2)
	suite.Equal("Room Quality", out[0].Name)
	suite.Equal(3, out[0].Count)
	suite.Len(out[0].Posts, 3)
	suite.Equal("Service", out[1].Name)
	suite.Equal(1, out[1].Count)
}

func (suite *AggregationsSuite) TestFoldAnnotationsSkipsBadJSON() {
	docs := []AnnotationDoc{
		{Raw: `{"Service": 1}`, Card: card("a")},
		{Raw: `not json at all`, Card: card("b")},
		{Raw: ``, Card: card("c")},
		{Raw: `{"Service": 2}`, Card: card("d")},
	}
	out := FoldAnnotations(docs, 10)
	suite.Require().Len(out, 1)
	suite.Equal(2, out[0].Count)
}

func (suite *AggregationsSuite) TestFoldAnnotationsSampleLimit() {
	docs := make([]AnnotationDoc, 5)
	for i := range docs {
		docs[i] = AnnotationDoc{Raw: `{"Service": 1}`, Card: card("x")}
	}
	out := FoldAnnotations(docs, 2)
	suite.Require().Len(out, 1)
	suite.Equal(5, out[0].Count)
	suite.Len(out[0].Posts, 2)
}

func (suite *AggregationsSuite) TestAnnotationMatches() {
	raw := `{"Room Quality": "Positive"}`
	suite.True(AnnotationMatches(raw, "room quality"))
	suite.True(AnnotationMatches(raw, "ROOM  QUALITY"))
	suite.False(AnnotationMatches(raw, "service"))
	suite.False(AnnotationMatches("", "room quality"))
	suite.False(AnnotationMatches("broken{", "room quality"))
}
