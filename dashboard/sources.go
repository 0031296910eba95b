package dashboard

import (
	"strings"

	"gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/consts"
	"github.com/pulseboard/listening-backend/utils"
)

// ResolveSourcePlatforms decides which source platforms a query is
// allowed to hit. Precedence, first matching rule wins:
//  1. LinkedIn-only topics (both casing variants);
//  2. an explicit source selector (single value or CSV, "All"/empty
//     meaning no selection);
//  3. special topics -> Facebook+Twitter;
//  4. Facebook+Twitter+Instagram topics;
//  5. the same plus Youtube;
//  6. the full default roster, narrowed to the availableSources
//     allow-list when one is configured.
func ResolveSourcePlatforms(source string, topicID int64, isSpecialTopic bool, availableSources []string) []string {
	if linkedInOnlyTopics[topicID] {
		return linkedInPlatforms()
	}

	if selected := splitSourceSelector(source); len(selected) > 0 {
		return selected
	}

	if isSpecialTopic {
		return facebookTwitterPlatforms()
	}
	if facebookTwitterInstagramTopics[topicID] {
		return facebookTwitterInstagramPlatforms()
	}
	if facebookTwitterInstagramYoutubeTopics[topicID] {
		return facebookTwitterInstagramYoutubePlatforms()
	}

	if len(availableSources) > 0 {
		narrowed := utils.FilterStringSlice(consts.DEFAULT_PLATFORMS, func(p string) bool {
			return utils.StringInSliceFold(p, availableSources)
		})
		if len(narrowed) > 0 {
			return narrowed
		}
	}
	return consts.DEFAULT_PLATFORMS
}

// SourceFilterClause wraps the resolved platform set into the should
// clause every composed query carries in its must array.
func SourceFilterClause(platforms []string) *elastic.BoolQuery {
	clause := elastic.NewBoolQuery().MinimumNumberShouldMatch(1)
	for _, p := range platforms {
		clause.Should(elastic.NewMatchPhraseQuery("source", p))
	}
	return clause
}

// splitSourceSelector normalizes the free-form source input: CSV or
// single value, blanks and the "All" sentinel dropped.
func splitSourceSelector(source string) []string {
	selected := []string{}
	for _, part := range strings.Split(source, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "all") {
			continue
		}
		selected = append(selected, part)
	}
	return selected
}
