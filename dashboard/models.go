package dashboard

// CategoryEntry is one named bundle of keyword/hashtag/url terms
// defining what a topic is about. Lists arrive from the store already
// trimmed, deduplicated and lowercased.
type CategoryEntry struct {
	Keywords []string `json:"keywords"`
	Hashtags []string `json:"hashtags"`
	URLs     []string `json:"urls"`
}

// Contentless entries match nothing, not everything, when selected
// explicitly.
func (e CategoryEntry) IsEmpty() bool {
	return len(e.Keywords) == 0 && len(e.Hashtags) == 0 && len(e.URLs) == 0
}

func (e CategoryEntry) Terms() []string {
	terms := make([]string, 0, len(e.Keywords)+len(e.Hashtags)+len(e.URLs))
	terms = append(terms, e.Keywords...)
	terms = append(terms, e.Hashtags...)
	terms = append(terms, e.URLs...)
	return terms
}

type CategoryDictionary map[string]CategoryEntry

// AllTerms flattens every entry of the dictionary.
func (d CategoryDictionary) AllTerms() []string {
	terms := []string{}
	for _, entry := range d {
		terms = append(terms, entry.Terms()...)
	}
	return terms
}

// DateWindow is a closed [GTE, LTE] interval. Dates are yyyy-MM-dd
// unless Exact is set, in which case bounds carry full ISO timestamps
// (T00:00:00.000Z / T23:59:59.999Z). A zero window means "no date
// filter".
type DateWindow struct {
	GTE   string `json:"gte"`
	LTE   string `json:"lte"`
	Exact bool   `json:"-"`
}

func (w DateWindow) IsZero() bool {
	return w.GTE == "" && w.LTE == ""
}

// FilterRequest is the union of filter inputs the widgets accept,
// normalized at the HTTP boundary. Stringly-typed legacy inputs
// ("undefined"/"null" sentinels, CSV-vs-array) never reach this type.
type FilterRequest struct {
	TopicID        int64
	Category       string
	Source         string
	Window         *DateWindow // nil skips the range clause entirely
	Sentiments     []string
	MentionTypes   []string
	Countries      []string
	Keywords       []string
	Organizations  []string
	Cities         []string
	DataSourceMode string // consts.DATA_SOURCE_ENTITY / _PUBLIC / ""
	DataSources    []string
	Available      []string // allow-list narrowing the default roster
}

// RawPost is the _source of an indexed document, limited to the fields
// the dashboard reads.
type RawPost struct {
	ProfilePhoto       string  `json:"u_profile_photo"`
	Followers          float64 `json:"u_followers"`
	Following          float64 `json:"u_following"`
	PostsCount         float64 `json:"u_posts"`
	Likes              float64 `json:"p_likes"`
	Shares             float64 `json:"p_shares"`
	Comments           float64 `json:"p_comments"`
	Engagement         float64 `json:"p_engagement"`
	MessageText        string  `json:"p_message_text"`
	Message            string  `json:"p_message"`
	Content            string  `json:"p_content"`
	Keywords           string  `json:"keywords"`
	Title              string  `json:"title"`
	Hashtags           string  `json:"hashtags"`
	USource            string  `json:"u_source"`
	UFullname          string  `json:"u_fullname"`
	UCountry           string  `json:"u_country"`
	URL                string  `json:"p_url"`
	Picture            string  `json:"p_picture"`
	PostID             string  `json:"p_id"`
	Source             string  `json:"source"`
	CreatedTime        string  `json:"p_created_time"`
	PredictedSentiment string  `json:"predicted_sentiment_value"`
	PredictedCategory  string  `json:"predicted_category"`
	LLMEmotion         string  `json:"llm_emotion"`
	LLMMentionType     string  `json:"llm_mention_type"`
	Rating             float64 `json:"rating"`
	VideoEmbedURL      string  `json:"video_embed_url"`
	CommentsText       string  `json:"p_comments_text"`
	CommentsData       string  `json:"p_comments_data"`
	ThemesSentiments   string  `json:"themes_sentiments"`
	Touchpoints        string  `json:"touchpoints"`
	TrustDimensions    string  `json:"trust_dimensions"`
}

// PostCard is the canonical per-post shape shared by every widget.
// Counts are strings, empty when zero or absent, except comments which
// is always set. This mirrors the frontend contract and must not be
// "fixed".
type PostCard struct {
	ProfilePicture     string   `json:"profilePicture"`
	Followers          string   `json:"followers"`
	Following          string   `json:"following"`
	Posts              string   `json:"posts"`
	Likes              string   `json:"likes"`
	Shares             string   `json:"shares"`
	Comments           string   `json:"comments"`
	Engagements        string   `json:"engagements"`
	Content            string   `json:"content"`
	ImageURL           string   `json:"image_url"`
	PredictedSentiment string   `json:"predicted_sentiment"`
	PredictedCategory  string   `json:"predicted_category"`
	LLMEmotion         string   `json:"llm_emotion"`
	SourceIcon         string   `json:"source_icon"`
	MessageText        string   `json:"message_text"`
	Source             string   `json:"source"`
	CreatedAt          string   `json:"created_at"`
	USource            string   `json:"uSource"`
	CommentsData       string   `json:"p_comments_data"`
	CommentsURL        string   `json:"comments_url,omitempty"`
	VideoEmbedURL      string   `json:"video_embed_url,omitempty"`
	Picture            string   `json:"p_picture,omitempty"`
	Language           string   `json:"language,omitempty"`
	MatchedTerms       []string `json:"matched_terms,omitempty"`
}

// KeyCount is one reshaped terms bucket.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DateCount is one reshaped date-histogram bucket.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnnotationBucket groups posts under one normalized theme, touchpoint
// or trust-dimension name.
type AnnotationBucket struct {
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Posts []PostCard `json:"posts"`
}
