package dashboard

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CategorySuite struct {
	suite.Suite
	dict CategoryDictionary
}

func TestCategory(t *testing.T) {
	suite.Run(t, new(CategorySuite))
}

func (suite *CategorySuite) SetupTest() {
	suite.dict = CategoryDictionary{
		"Danat Jebel Dhanna Resort": {Keywords: []string{"danat jebel dhanna"}},
		"Al Ain Rotana":             {Keywords: []string{"al ain rotana"}, Hashtags: []string{"#alainrotana"}},
		"Empty Brand":               {},
	}
}

func (suite *CategorySuite) TestPassthrough() {
	for _, selected := range []string{"", "all", "All", "custom", "CUSTOM"} {
		resolved, ok := ResolveCategory(selected, suite.dict)
		suite.True(ok, selected)
		suite.Equal(selected, resolved)
	}
}

func (suite *CategorySuite) TestExactCaseInsensitive() {
	resolved, ok := ResolveCategory("al ain rotana", suite.dict)
	suite.True(ok)
	suite.Equal("Al Ain Rotana", resolved)
}

func (suite *CategorySuite) TestNormalizedWhitespace() {
	resolved, ok := ResolveCategory("AlAinRotana", suite.dict)
	suite.True(ok)
	suite.Equal("Al Ain Rotana", resolved)
}

func (suite *CategorySuite) TestSubstringEitherDirection() {
	// Selected name shorter than the stored key.
	resolved, ok := ResolveCategory("Danat Jebel Dhanna", suite.dict)
	suite.True(ok)
	suite.Equal("Danat Jebel Dhanna Resort", resolved)

	// Selected name longer than the stored key.
	resolved, ok = ResolveCategory("Al Ain Rotana Hotel and Spa", suite.dict)
	suite.True(ok)
	suite.Equal("Al Ain Rotana", resolved)
}

func (suite *CategorySuite) TestNoMatch() {
	_, ok := ResolveCategory("Completely Unrelated", suite.dict)
	suite.False(ok)
}

func (suite *CategorySuite) TestEmptyDictionary() {
	_, ok := ResolveCategory("anything", CategoryDictionary{})
	suite.False(ok)
}

func (suite *CategorySuite) TestDeterministic() {
	// Both keys contain "a"; resolution must always pick the same one.
	first, ok := ResolveCategory("a", suite.dict)
	suite.True(ok)
	for i := 0; i < 50; i++ {
		again, ok := ResolveCategory("a", suite.dict)
		suite.True(ok)
		suite.Equal(first, again)
	}
}
