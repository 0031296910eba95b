package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TimeRangeSuite struct {
	suite.Suite
}

func TestTimeRange(t *testing.T) {
	suite.Run(t, new(TimeRangeSuite))
}

func (suite *TimeRangeSuite) SetupTest() {
	nowFunc = func() time.Time {
		return time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	}
}

func (suite *TimeRangeSuite) TearDownTest() {
	nowFunc = time.Now
}

func (suite *TimeRangeSuite) TestDefaultWindow() {
	w := ResolveTimeRange("", "", "", 1, false)
	suite.Equal(DateWindow{GTE: "2024-03-12", LTE: "2024-06-10"}, w)
}

func (suite *TimeRangeSuite) TestSlotSpellings() {
	for _, slot := range []string{"7d", "Last 7 days", "last7days", "LAST 7 DAYS"} {
		w := ResolveTimeRange(slot, "", "", 1, false)
		suite.Equal(DateWindow{GTE: "2024-06-03", LTE: "2024-06-10"}, w, slot)
	}
}

func (suite *TimeRangeSuite) TestToday() {
	w := ResolveTimeRange("today", "", "", 1, false)
	suite.Equal(DateWindow{GTE: "2024-06-10", LTE: "2024-06-10"}, w)
}

func (suite *TimeRangeSuite) TestExplicitDatesOverrideSlot() {
	w := ResolveTimeRange("30d", "2024-01-01", "2024-02-01", 1, false)
	suite.Equal(DateWindow{GTE: "2024-01-01", LTE: "2024-02-01"}, w)

	// Either bound may come alone.
	w = ResolveTimeRange("30d", "2024-01-01", "", 1, false)
	suite.Equal(DateWindow{GTE: "2024-01-01", LTE: "2024-06-10"}, w)
	w = ResolveTimeRange("30d", "", "2024-06-01", 1, false)
	suite.Equal(DateWindow{GTE: "2024-05-11", LTE: "2024-06-01"}, w)
}

func (suite *TimeRangeSuite) TestSpecialTopicWidensDefault() {
	w := ResolveTimeRange("", "", "", 2619, true)
	suite.Equal(DateWindow{GTE: "2020-01-01", LTE: "2024-06-10"}, w)

	// Explicit dates cancel the widening.
	w = ResolveTimeRange("", "2024-05-01", "", 2619, true)
	suite.Equal("2024-05-01", w.GTE)
}

func (suite *TimeRangeSuite) TestTopicOverrideWinsOverEverything() {
	w := ResolveTimeRange("7d", "2024-01-01", "2024-02-01", 2473, false)
	suite.Equal(DateWindow{GTE: "2023-01-01", LTE: "2023-04-30"}, w)

	w = ResolveTimeRange("", "", "", 2521, false)
	suite.Equal(DateWindow{GTE: "2022-09-01", LTE: "2023-02-28"}, w)
}

func (suite *TimeRangeSuite) TestOrderedBounds() {
	for _, slot := range []string{"", "24h", "7d", "30d", "60d", "90d", "120d", "today"} {
		w := ResolveTimeRange(slot, "", "", 1, false)
		suite.True(w.GTE <= w.LTE, slot)
	}
}

func (suite *TimeRangeSuite) TestExactBounds() {
	w := DateWindow{GTE: "2024-06-03", LTE: "2024-06-10"}.ExactBounds()
	suite.Equal("2024-06-03T00:00:00.000Z", w.GTE)
	suite.Equal("2024-06-10T23:59:59.999Z", w.LTE)
	suite.True(w.Exact)

	// Already widened bounds pass through.
	again := w.ExactBounds()
	suite.Equal(w.GTE, again.GTE)
	suite.Equal(w.LTE, again.LTE)
}
