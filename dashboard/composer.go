package dashboard

import (
	"fmt"
	"strings"

	"gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/consts"
	"github.com/pulseboard/listening-backend/utils"
)

// ComposeQuery assembles one bool query from the resolved filter
// request. All clauses are ANDed; absence of an optional input means
// the clause is simply not added, never an error. The result may
// legitimately match nothing (e.g. a contentless category) - that is
// valid output.
func ComposeQuery(r FilterRequest, dict CategoryDictionary) *elastic.BoolQuery {
	query := elastic.NewBoolQuery().
		MustNot(elastic.NewTermQuery("source", consts.SOURCE_DM))

	if r.Window != nil && !r.Window.IsZero() {
		query.Must(rangeClause(*r.Window))
	}

	resolved, ok := ResolveCategory(r.Category, dict)
	if !ok {
		resolved = CATEGORY_ALL
	}
	if clause := categoryClause(resolved, dict); clause != nil {
		query.Must(clause)
	}

	platforms := ResolveSourcePlatforms(r.Source, r.TopicID, IsSpecialTopic(r.TopicID), r.Available)
	query.Must(SourceFilterClause(platforms))

	if clause := valuesClause("predicted_sentiment_value", r.Sentiments); clause != nil {
		query.Must(clause)
	}
	if clause := valuesClause("llm_mention_type", r.MentionTypes); clause != nil {
		query.Must(clause)
	}
	if len(r.Countries) > 0 {
		query.Must(elastic.NewTermsQuery("u_country.keyword", utils.ConvertArgsString(r.Countries)...))
	}
	for _, keyword := range r.Keywords {
		query.Must(phraseMatch(keyword))
	}
	if len(r.Organizations) > 0 {
		orgs := elastic.NewBoolQuery().MinimumNumberShouldMatch(1)
		for _, org := range r.Organizations {
			orgs.Should(elastic.NewTermQuery("u_organization.keyword", org))
		}
		query.Must(orgs)
	}
	if len(r.Cities) > 0 {
		query.Must(elastic.NewTermsQuery("u_city.keyword", utils.ConvertArgsString(r.Cities)...))
	}

	applyDataSourceSplit(query, r.DataSourceMode, r.DataSources)

	return query
}

func rangeClause(w DateWindow) elastic.Query {
	clause := elastic.NewRangeQuery("p_created_time")
	if w.GTE != "" {
		clause.Gte(w.GTE)
	}
	if w.LTE != "" {
		clause.Lte(w.LTE)
	}
	if !w.Exact {
		clause.Format("yyyy-MM-dd")
	}
	return clause
}

// categoryClause builds the keyword/hashtag/url filter. "all" ORs the
// terms of every dictionary entry; a specific category ORs only its
// own. A contentless category matches nothing on purpose: selecting an
// empty category yields zero results, not all results.
func categoryClause(resolved string, dict CategoryDictionary) elastic.Query {
	var terms []string
	switch strings.ToLower(resolved) {
	case CATEGORY_ALL, CATEGORY_CUSTOM, "":
		terms = dict.AllTerms()
		if len(terms) == 0 {
			return nil
		}
	default:
		entry, ok := dict[resolved]
		if !ok || entry.IsEmpty() {
			return elastic.NewBoolQuery().MustNot(elastic.NewMatchAllQuery())
		}
		terms = entry.Terms()
	}

	clause := elastic.NewBoolQuery().MinimumNumberShouldMatch(1)
	for _, term := range terms {
		clause.Should(phraseMatch(term))
	}
	return clause
}

func phraseMatch(term string) elastic.Query {
	return elastic.NewMultiMatchQuery(term, consts.CATEGORY_MATCH_FIELDS...).Type("phrase")
}

// valuesClause renders a normalized value list: one value matches
// directly, several OR together.
func valuesClause(field string, values []string) elastic.Query {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return elastic.NewMatchQuery(field, values[0])
	default:
		clause := elastic.NewBoolQuery().MinimumNumberShouldMatch(1)
		for _, v := range values {
			clause.Should(elastic.NewMatchQuery(field, v))
		}
		return clause
	}
}

// applyDataSourceSplit restricts the query to posts by the tracked
// entities themselves (Entity) or excludes them (Public). Entity names
// that look like URLs need query_string escaping.
func applyDataSourceSplit(query *elastic.BoolQuery, mode string, names []string) {
	if len(names) == 0 {
		return
	}
	switch mode {
	case consts.DATA_SOURCE_ENTITY:
		entity := elastic.NewBoolQuery().MinimumNumberShouldMatch(1)
		for _, name := range names {
			entity.Should(entityQueryString(name))
		}
		query.Must(entity)
	case consts.DATA_SOURCE_PUBLIC:
		for _, name := range names {
			query.MustNot(entityQueryString(name))
		}
	}
}

func entityQueryString(name string) elastic.Query {
	return elastic.NewQueryStringQuery(fmt.Sprintf("\"%s\"", escapeQueryString(name))).
		Field("u_source").
		Field("u_fullname").
		Field("p_url")
}

var queryStringEscaper = strings.NewReplacer(
	"/", "\\/",
	":", "\\:",
	"+", "\\+",
	"-", "\\-",
	"!", "\\!",
)

func escapeQueryString(name string) string {
	if strings.Contains(name, "://") || strings.Contains(name, "/") || strings.HasPrefix(name, "www.") {
		return queryStringEscaper.Replace(name)
	}
	return name
}
