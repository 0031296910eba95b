package consts

const (
	// Source platforms as they appear on indexed documents.
	PLATFORM_FACEBOOK     = "Facebook"
	PLATFORM_TWITTER      = "Twitter"
	PLATFORM_INSTAGRAM    = "Instagram"
	PLATFORM_YOUTUBE      = "Youtube"
	PLATFORM_LINKEDIN     = "LinkedIn"
	PLATFORM_LINKEDIN_ALT = "Linkedin"
	PLATFORM_PINTEREST    = "Pinterest"
	PLATFORM_WEB          = "Web"
	PLATFORM_REDDIT       = "Reddit"
	PLATFORM_TIKTOK       = "TikTok"
	PLATFORM_GMB          = "GoogleMyBusiness"
	PLATFORM_GOOGLE_MAPS  = "GoogleMaps"
	PLATFORM_TRIPADVISOR  = "Tripadvisor"

	// Direct messages are never part of any dashboard widget.
	SOURCE_DM = "DM"

	// Time slots
	TIME_SLOT_24H   = "24h"
	TIME_SLOT_7D    = "7d"
	TIME_SLOT_30D   = "30d"
	TIME_SLOT_60D   = "60d"
	TIME_SLOT_90D   = "90d"
	TIME_SLOT_120D  = "120d"
	TIME_SLOT_TODAY = "today"

	// Review sites encode reviewer text and owner reply in one field.
	REVIEW_TEXT_DELIMITER = "***|||###"

	DEFAULT_PAGE_SIZE = 20
	MAX_PAGE_SIZE     = 50

	// Export scroll page size.
	EXPORT_SCROLL_SIZE = 500

	// Data source split modes.
	DATA_SOURCE_ENTITY = "Entity"
	DATA_SOURCE_PUBLIC = "Public"
)

// Document fields a category term is phrase-matched against. The exact
// list is part of the frontend contract, do not reorder or extend per
// widget.
var CATEGORY_MATCH_FIELDS = []string{
	"p_message_text",
	"p_message",
	"keywords",
	"title",
	"hashtags",
	"u_source",
	"p_url",
}

// Full platform roster used when nothing narrows the source filter.
var DEFAULT_PLATFORMS = []string{
	PLATFORM_FACEBOOK,
	PLATFORM_TWITTER,
	PLATFORM_INSTAGRAM,
	PLATFORM_YOUTUBE,
	PLATFORM_LINKEDIN,
	PLATFORM_LINKEDIN_ALT,
	PLATFORM_PINTEREST,
	PLATFORM_WEB,
	PLATFORM_REDDIT,
	PLATFORM_TIKTOK,
}

// Days back per time slot. Keys are normalized (lowercased, whitespace
// stripped) so both "Last 7 days" and "7d" resolve.
var TIME_SLOT_DAYS = map[string]int{
	TIME_SLOT_24H:  1,
	"last24hours":  1,
	TIME_SLOT_7D:   7,
	"last7days":    7,
	TIME_SLOT_30D:  30,
	"last30days":   30,
	TIME_SLOT_60D:  60,
	"last60days":   60,
	TIME_SLOT_90D:  90,
	"last90days":   90,
	TIME_SLOT_120D: 120,
	"last120days":  120,
	"last4months":  120,
}

const DEFAULT_RANGE_DAYS = 90
