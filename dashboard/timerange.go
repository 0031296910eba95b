package dashboard

import (
	"strings"
	"time"
	"unicode"

	"github.com/pulseboard/listening-backend/consts"
)

const dateLayout = "2006-01-02"

// Injectable for tests.
var nowFunc = time.Now

// ResolveTimeRange turns a time-slot enum and/or explicit from/to
// dates into a concrete closed window.
//
// Resolution order:
//  1. slot -> now minus N days ("today" -> start of today); an
//     unrecognized slot with no explicit dates defaults to 90 days
//     back, widened to a multi-year window for special topics;
//  2. explicit fromDate/toDate override the slot-derived bound they
//     correspond to (either may come alone);
//  3. a fixed set of topic ids forces a hardcoded historical window,
//     winning over everything above.
func ResolveTimeRange(timeSlot, fromDate, toDate string, topicID int64, isSpecialTopic bool) DateWindow {
	now := nowFunc().UTC()
	window := DateWindow{
		GTE: now.AddDate(0, 0, -consts.DEFAULT_RANGE_DAYS).Format(dateLayout),
		LTE: now.Format(dateLayout),
	}
	if isSpecialTopic && fromDate == "" && toDate == "" {
		window.GTE = specialTopicEarliestDate
	}

	slot := normalizeTimeSlot(timeSlot)
	if slot == consts.TIME_SLOT_TODAY {
		window.GTE = now.Format(dateLayout)
	} else if days, ok := consts.TIME_SLOT_DAYS[slot]; ok {
		window.GTE = now.AddDate(0, 0, -days).Format(dateLayout)
	}

	if fromDate != "" {
		window.GTE = fromDate
	}
	if toDate != "" {
		window.LTE = toDate
	}

	if override, ok := topicDateOverrides[topicID]; ok {
		return override
	}

	return window
}

// ExactBounds widens a day-granular window to full ISO timestamps for
// the endpoints that filter on exact creation times.
func (w DateWindow) ExactBounds() DateWindow {
	exact := DateWindow{GTE: w.GTE, LTE: w.LTE, Exact: true}
	if exact.GTE != "" && len(exact.GTE) == len(dateLayout) {
		exact.GTE += "T00:00:00.000Z"
	}
	if exact.LTE != "" && len(exact.LTE) == len(dateLayout) {
		exact.LTE += "T23:59:59.999Z"
	}
	return exact
}

func normalizeTimeSlot(slot string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, slot)
}
