package dashboard

import (
	"github.com/pulseboard/listening-backend/consts"
)

// Topic-id keyed business rules. These used to live as literal numeric
// comparisons scattered across every endpoint; keeping them in one
// table per rule makes the precedence order auditable. Add ids here,
// never inline.

// Topics restricted to LinkedIn regardless of any other input. Both
// casing variants are matched because the source data is inconsistent.
var linkedInOnlyTopics = map[int64]bool{
	2600: true,
	2601: true,
	2638: true,
}

// Topics restricted to Facebook, Twitter and Instagram.
var facebookTwitterInstagramTopics = map[int64]bool{
	2325: true,
	2388: true,
}

// Topics additionally allowed Youtube on top of the previous set.
var facebookTwitterInstagramYoutubeTopics = map[int64]bool{
	2347: true,
	2391: true,
	2427: true,
}

// Special topics get Facebook+Twitter sources and a widened default
// date range when the caller supplies no dates at all.
var specialTopics = map[int64]bool{
	2619: true,
	2627: true,
}

// Topics pinned to a fixed historical window no matter what the
// request says. Applied after slot/explicit-date resolution and wins
// unconditionally.
var topicDateOverrides = map[int64]DateWindow{
	2473: {GTE: "2023-01-01", LTE: "2023-04-30"},
	2474: {GTE: "2023-01-01", LTE: "2023-04-30"},
	2521: {GTE: "2022-09-01", LTE: "2023-02-28"},
}

// Earliest date of the widened default window for special topics.
const specialTopicEarliestDate = "2020-01-01"

func IsSpecialTopic(topicID int64) bool {
	return specialTopics[topicID]
}

// TopicDateOverride reports whether a topic is pinned to a fixed
// historical window.
func TopicDateOverride(topicID int64) (DateWindow, bool) {
	window, ok := topicDateOverrides[topicID]
	return window, ok
}

func linkedInPlatforms() []string {
	return []string{consts.PLATFORM_LINKEDIN, consts.PLATFORM_LINKEDIN_ALT}
}

func facebookTwitterPlatforms() []string {
	return []string{consts.PLATFORM_FACEBOOK, consts.PLATFORM_TWITTER}
}

func facebookTwitterInstagramPlatforms() []string {
	return []string{consts.PLATFORM_FACEBOOK, consts.PLATFORM_TWITTER, consts.PLATFORM_INSTAGRAM}
}

func facebookTwitterInstagramYoutubePlatforms() []string {
	return append(facebookTwitterInstagramPlatforms(), consts.PLATFORM_YOUTUBE)
}
