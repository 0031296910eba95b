package api

import (
	"encoding/json"
	"strings"

	"github.com/pulseboard/listening-backend/consts"
	"github.com/pulseboard/listening-backend/dashboard"
	"github.com/pulseboard/listening-backend/utils"
)

// StringList accepts the legacy duck-typed filter inputs: a JSON
// array, a single string, or a comma-joined string. The literal
// sentinels "undefined" and "null" mean absent - an old frontend quirk
// that is shimmed away here and never reaches the composer.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		*l = cleanValues([]string{asString})
		return nil
	}
	var asSlice []string
	if err := json.Unmarshal(b, &asSlice); err == nil {
		*l = cleanValues(asSlice)
		return nil
	}
	// null or unexpected shape: treat as absent
	*l = nil
	return nil
}

// cleanValues splits comma-joined entries and drops blanks and the
// legacy sentinels. Idempotent, so it is safe to run both inside
// UnmarshalJSON and again after binding.
func cleanValues(values []string) []string {
	cleaned := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "undefined") || strings.EqualFold(part, "null") {
				continue
			}
			cleaned = append(cleaned, part)
		}
	}
	return cleaned
}

// WidgetRequest is the filter payload every widget endpoint binds.
type WidgetRequest struct {
	TopicID        int64      `json:"topicId" form:"topicId"`
	TimeSlot       string     `json:"timeSlot" form:"timeSlot"`
	FromDate       string     `json:"fromDate" form:"fromDate"`
	ToDate         string     `json:"toDate" form:"toDate"`
	Category       string     `json:"category" form:"category"`
	Source         string     `json:"source" form:"source"`
	SentimentType  StringList `json:"sentimentType" form:"sentimentType"`
	LLMMentionType StringList `json:"llmMentionType" form:"llmMentionType"`
	Countries      StringList `json:"countries" form:"countries"`
	Keywords       StringList `json:"keywords" form:"keywords"`
	Organizations  StringList `json:"organizations" form:"organizations"`
	Cities         StringList `json:"cities" form:"cities"`
	DataSource     string     `json:"dataSource" form:"dataSource"`
}

// MentionsRequest adds paging on top of the common filters.
type MentionsRequest struct {
	WidgetRequest
	Page     int `json:"page" form:"page"`
	PageSize int `json:"pageSize" form:"pageSize"`
}

func (r MentionsRequest) limits() (from int, size int) {
	size = r.PageSize
	if size <= 0 {
		size = consts.DEFAULT_PAGE_SIZE
	}
	size = utils.Min(size, consts.MAX_PAGE_SIZE)
	if r.Page > 1 {
		from = (r.Page - 1) * size
	}
	return from, size
}

// PostsDetailRequest is bound by the post-detail endpoints that drill
// into one theme / touchpoint / trust dimension / source.
type PostsDetailRequest struct {
	WidgetRequest
	Theme      string `json:"theme" form:"theme"`
	Touchpoint string `json:"touchpoint" form:"touchpoint"`
	Dimension  string `json:"dimension" form:"dimension"`
	SourceName string `json:"sourceName" form:"sourceName"`
	Page       int    `json:"page" form:"page"`
	PageSize   int    `json:"pageSize" form:"pageSize"`
}

// normalize re-applies the legacy-input shim after binding. JSON
// bodies pass through StringList.UnmarshalJSON, but form binding (GET)
// assigns slice values directly, so CSV splitting and sentinel
// dropping must run again here. Every handler calls this right after a
// successful bind.
func (r *WidgetRequest) normalize() {
	r.SentimentType = cleanValues(r.SentimentType)
	r.LLMMentionType = cleanValues(r.LLMMentionType)
	r.Countries = cleanValues(r.Countries)
	r.Keywords = cleanValues(r.Keywords)
	r.Organizations = cleanValues(r.Organizations)
	r.Cities = cleanValues(r.Cities)
}

// hasDateInput tells whether the caller provided any date information
// at all. Some endpoints skip the date filter entirely in that case
// instead of defaulting - a per-endpoint policy, not a global one.
func (r WidgetRequest) hasDateInput() bool {
	return r.TimeSlot != "" || r.FromDate != "" || r.ToDate != ""
}

// resolveWindow computes the concrete date window for this request.
// defaultWhenAbsent selects between the defaulting and the
// skip-entirely policies; exact widens bounds to full ISO timestamps.
func (r WidgetRequest) resolveWindow(defaultWhenAbsent bool, exact bool) *dashboard.DateWindow {
	if !defaultWhenAbsent && !r.hasDateInput() {
		if _, pinned := dashboard.TopicDateOverride(r.TopicID); !pinned {
			return nil
		}
	}
	window := dashboard.ResolveTimeRange(
		r.TimeSlot, r.FromDate, r.ToDate, r.TopicID, dashboard.IsSpecialTopic(r.TopicID))
	if exact {
		window = window.ExactBounds()
	}
	return &window
}

// toFilter threads the request and the per-topic lookups into the
// composer's explicit input. No ambient request state beyond this.
func (r WidgetRequest) toFilter(window *dashboard.DateWindow, available []string, entities []string) dashboard.FilterRequest {
	return dashboard.FilterRequest{
		TopicID:        r.TopicID,
		Category:       r.Category,
		Source:         r.Source,
		Window:         window,
		Sentiments:     r.SentimentType,
		MentionTypes:   r.LLMMentionType,
		Countries:      r.Countries,
		Keywords:       r.Keywords,
		Organizations:  r.Organizations,
		Cities:         r.Cities,
		DataSourceMode: r.DataSource,
		DataSources:    entities,
		Available:      available,
	}
}

// categoryTerms returns the term list matched_terms is computed
// against for this request's resolved category.
func categoryTerms(category string, dict dashboard.CategoryDictionary) []string {
	resolved, ok := dashboard.ResolveCategory(category, dict)
	if !ok {
		resolved = "all"
	}
	switch strings.ToLower(resolved) {
	case "all", "custom", "":
		return dict.AllTerms()
	default:
		return dict[resolved].Terms()
	}
}
