package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pulseboard/listening-backend/consts"
)

type SourcesSuite struct {
	suite.Suite
}

func TestSources(t *testing.T) {
	suite.Run(t, new(SourcesSuite))
}

func (suite *SourcesSuite) TestLinkedInOnlyBeatsEverything() {
	platforms := ResolveSourcePlatforms("Facebook,Twitter", 2600, false, []string{"Facebook"})
	suite.Equal([]string{"LinkedIn", "Linkedin"}, platforms)
}

func (suite *SourcesSuite) TestExplicitSelector() {
	suite.Equal([]string{"Facebook"}, ResolveSourcePlatforms("Facebook", 1, false, nil))
	suite.Equal([]string{"Facebook", "Twitter"}, ResolveSourcePlatforms("Facebook, Twitter", 1, false, nil))

	// "All" and blanks in a CSV are not a selection.
	suite.Equal([]string{"Twitter"}, ResolveSourcePlatforms("All, ,Twitter", 1, false, nil))
	suite.Equal(consts.DEFAULT_PLATFORMS, ResolveSourcePlatforms("All", 1, false, nil))
	suite.Equal(consts.DEFAULT_PLATFORMS, ResolveSourcePlatforms("", 1, false, nil))
}

func (suite *SourcesSuite) TestSpecialTopic() {
	platforms := ResolveSourcePlatforms("", 2619, true, nil)
	suite.Equal([]string{"Facebook", "Twitter"}, platforms)

	// An explicit selector still wins over the special-topic rule.
	platforms = ResolveSourcePlatforms("Instagram", 2619, true, nil)
	suite.Equal([]string{"Instagram"}, platforms)
}

func (suite *SourcesSuite) TestTopicPlatformSets() {
	suite.Equal(
		[]string{"Facebook", "Twitter", "Instagram"},
		ResolveSourcePlatforms("", 2325, false, nil))
	suite.Equal(
		[]string{"Facebook", "Twitter", "Instagram", "Youtube"},
		ResolveSourcePlatforms("", 2347, false, nil))
}

func (suite *SourcesSuite) TestAvailableSourcesNarrowDefault() {
	platforms := ResolveSourcePlatforms("", 1, false, []string{"facebook", "WEB"})
	suite.Equal([]string{"Facebook", "Web"}, platforms)

	// An allow-list matching nothing falls back to the full roster.
	platforms = ResolveSourcePlatforms("", 1, false, []string{"Myspace"})
	suite.Equal(consts.DEFAULT_PLATFORMS, platforms)
}

func (suite *SourcesSuite) TestSourceFilterClause() {
	src, err := SourceFilterClause([]string{"Facebook", "Twitter"}).Source()
	suite.Require().Nil(err)
	b, err := json.Marshal(src)
	suite.Require().Nil(err)

	s := string(b)
	suite.Contains(s, `"minimum_should_match":"1"`)
	suite.Contains(s, `"match_phrase":{"source":{"query":"Facebook"}}`)
	suite.Contains(s, `"match_phrase":{"source":{"query":"Twitter"}}`)
}
