package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pulseboard/listening-backend/consts"
)

type ComposerSuite struct {
	suite.Suite
	dict CategoryDictionary
}

func TestComposer(t *testing.T) {
	suite.Run(t, new(ComposerSuite))
}

func (suite *ComposerSuite) SetupTest() {
	suite.dict = CategoryDictionary{
		"Foo Hotel": {Keywords: []string{"foo hotel"}, Hashtags: []string{"#foohotel"}},
		"Bar Mall":  {Keywords: []string{"bar mall"}},
		"Empty":     {},
	}
}

// render marshals a composed query so assertions can look at the
// actual wire shape.
func (suite *ComposerSuite) render(r FilterRequest) string {
	src, err := ComposeQuery(r, suite.dict).Source()
	suite.Require().Nil(err)
	b, err := json.Marshal(src)
	suite.Require().Nil(err)
	return string(b)
}

// boolPart returns one clause list of the top-level bool query,
// normalizing the single-clause case to a one-element slice.
func (suite *ComposerSuite) boolPart(r FilterRequest, part string) []interface{} {
	src, err := ComposeQuery(r, suite.dict).Source()
	suite.Require().Nil(err)
	boolMap := src.(map[string]interface{})["bool"].(map[string]interface{})
	switch v := boolMap[part].(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}

func clauseHasKey(clause interface{}, key string) bool {
	m, ok := clause.(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

func (suite *ComposerSuite) TestAlwaysExcludesDirectMessages() {
	s := suite.render(FilterRequest{})
	suite.Contains(s, `"term":{"source":"DM"}`)
}

func (suite *ComposerSuite) TestFullQueryShape() {
	window := DateWindow{GTE: "2024-06-03", LTE: "2024-06-10"}
	r := FilterRequest{
		Category: "Foo Hotel",
		Window:   &window,
	}

	must := suite.boolPart(r, "must")
	ranges, bools := 0, 0
	for _, clause := range must {
		if clauseHasKey(clause, "range") {
			ranges++
		}
		if clauseHasKey(clause, "bool") {
			bools++
		}
	}
	suite.Equal(1, ranges)
	// Category should-clause plus platform should-clause, nothing else.
	suite.Equal(2, bools)

	s := suite.render(r)
	suite.Contains(s, `"format":"yyyy-MM-dd"`)
	suite.Contains(s, `"multi_match"`)
	suite.Contains(s, `"type":"phrase"`)
	for _, field := range consts.CATEGORY_MATCH_FIELDS {
		suite.Contains(s, field)
	}
	suite.Contains(s, "foo hotel")
	suite.Contains(s, "#foohotel")
	suite.NotContains(s, "bar mall")
}

func (suite *ComposerSuite) TestNoWindowMeansNoRangeClause() {
	suite.NotContains(suite.render(FilterRequest{}), `"range"`)
}

func (suite *ComposerSuite) TestExactWindowSkipsDayFormat() {
	window := DateWindow{
		GTE:   "2024-06-03T00:00:00.000Z",
		LTE:   "2024-06-10T23:59:59.999Z",
		Exact: true,
	}
	s := suite.render(FilterRequest{Window: &window})
	suite.NotContains(s, `"format":"yyyy-MM-dd"`)
	suite.Contains(s, "2024-06-03T00:00:00.000Z")
}

func (suite *ComposerSuite) TestAllCategoryCombinesEveryEntry() {
	s := suite.render(FilterRequest{Category: "all"})
	suite.Contains(s, "foo hotel")
	suite.Contains(s, "bar mall")
}

func (suite *ComposerSuite) TestUnknownCategoryFallsBackToAll() {
	s := suite.render(FilterRequest{Category: "no such brand"})
	suite.Contains(s, "foo hotel")
	suite.Contains(s, "bar mall")
}

func (suite *ComposerSuite) TestContentlessCategoryMatchesNothing() {
	s := suite.render(FilterRequest{Category: "Empty"})
	suite.Contains(s, `"match_all"`)
	suite.NotContains(s, "foo hotel")
}

func (suite *ComposerSuite) TestValueFilters() {
	s := suite.render(FilterRequest{Sentiments: []string{"Positive"}})
	suite.Contains(s, `"match":{"predicted_sentiment_value":{"query":"Positive"}}`)

	s = suite.render(FilterRequest{Sentiments: []string{"Positive", "Neutral"}})
	suite.Contains(s, `"query":"Positive"`)
	suite.Contains(s, `"query":"Neutral"`)

	s = suite.render(FilterRequest{MentionTypes: []string{"Complaint"}})
	suite.Contains(s, `"match":{"llm_mention_type":{"query":"Complaint"}}`)
}

func (suite *ComposerSuite) TestLocationAndKeywordFilters() {
	s := suite.render(FilterRequest{
		Countries: []string{"UAE"},
		Cities:    []string{"Dubai"},
		Keywords:  []string{"pool"},
	})
	suite.Contains(s, `"terms":{"u_country.keyword":["UAE"]}`)
	suite.Contains(s, `"terms":{"u_city.keyword":["Dubai"]}`)
	suite.Contains(s, `"query":"pool"`)
}

func (suite *ComposerSuite) TestEntityPublicSplit() {
	names := []string{"Foo Hotel", "https://foo.example/brand"}

	s := suite.render(FilterRequest{DataSourceMode: consts.DATA_SOURCE_ENTITY, DataSources: names})
	suite.Contains(s, `"query_string"`)
	suite.Contains(s, `\"Foo Hotel\"`)
	// URL-looking names get their reserved characters escaped.
	suite.Contains(s, `https\\:\\/\\/foo.example\\/brand`)

	mustNot := suite.boolPart(
		FilterRequest{DataSourceMode: consts.DATA_SOURCE_PUBLIC, DataSources: names}, "must_not")
	queryStrings := 0
	for _, clause := range mustNot {
		if clauseHasKey(clause, "query_string") {
			queryStrings++
		}
	}
	suite.Equal(len(names), queryStrings)
}
