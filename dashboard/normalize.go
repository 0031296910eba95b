package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"jaytaylor.com/html2text"

	"github.com/pulseboard/listening-backend/consts"
	"github.com/pulseboard/listening-backend/utils"
)

const defaultProfilePicture = "/images/default_profile.png"

// Literal source names folded into umbrella icon categories. Anything
// else passes through unchanged.
var sourceIconCategories = map[string]string{
	"Blog":       "Blog",
	"Blogs":      "Blog",
	"Blogspot":   "Blog",
	"Reddit":     "Reddit",
	"News":       "News",
	"FakeNews":   "News",
	"GoogleNews": "News",
	"Tumblr":     "Tumblr",
	"Vimeo":      "Vimeo",
	"Web":        "Web",
	"Websites":   "Web",
}

// Normalize maps one raw document into the canonical post card. Pure
// and deterministic: same input, same card, every call.
func Normalize(raw RawPost) PostCard {
	card := PostCard{
		ProfilePicture:     profilePicture(raw.ProfilePhoto),
		Followers:          countString(raw.Followers),
		Following:          countString(raw.Following),
		Posts:              countString(raw.PostsCount),
		Likes:              countString(raw.Likes),
		Shares:             countString(raw.Shares),
		Engagements:        countString(raw.Engagement),
		Content:            raw.Content,
		ImageURL:           raw.Picture,
		PredictedCategory:  raw.PredictedCategory,
		Source:             raw.Source,
		CreatedAt:          raw.CreatedTime,
		USource:            raw.USource,
		CommentsData:       raw.CommentsData,
		PredictedSentiment: deriveSentiment(raw),
		LLMEmotion:         deriveEmotion(raw),
		SourceIcon:         sourceIcon(raw),
		MessageText:        cleanMessageText(raw),
		Language:           utils.DetectPostLanguage(raw.MessageText),
	}

	// Comments count is always a string, "0" included. Intentional
	// asymmetry with the other counters.
	card.Comments = strconv.FormatInt(int64(raw.Comments), 10)

	if raw.Source == consts.PLATFORM_YOUTUBE {
		if raw.VideoEmbedURL != "" {
			card.VideoEmbedURL = raw.VideoEmbedURL
		} else if raw.PostID != "" {
			card.VideoEmbedURL = fmt.Sprintf("https://www.youtube.com/embed/%s", raw.PostID)
		}
	} else {
		card.Picture = raw.Picture
	}

	if strings.TrimSpace(raw.CommentsText) != "" {
		card.CommentsURL = fixCommentsURL(raw.CommentsText)
	}

	return card
}

// NormalizeWithTerms additionally reports which of the caller's terms
// actually occur on the post. Used by the widgets that highlight why a
// post matched.
func NormalizeWithTerms(raw RawPost, terms []string) PostCard {
	card := Normalize(raw)
	card.MatchedTerms = MatchedTerms(raw, terms)
	return card
}

// MatchedTerms returns the subset of terms contained, case
// insensitively, in any of the post's text fields. Plain substring
// containment, not tokenized matching.
func MatchedTerms(raw RawPost, terms []string) []string {
	haystacks := []string{
		raw.MessageText,
		raw.Message,
		raw.Content,
		raw.Keywords,
		raw.Title,
		raw.Hashtags,
		raw.USource,
		raw.URL,
		raw.UFullname,
	}
	for i := range haystacks {
		haystacks[i] = strings.ToLower(haystacks[i])
	}

	matched := []string{}
	for _, term := range terms {
		needle := strings.ToLower(strings.TrimSpace(term))
		if needle == "" {
			continue
		}
		for _, haystack := range haystacks {
			if strings.Contains(haystack, needle) {
				matched = append(matched, term)
				break
			}
		}
	}
	return matched
}

func profilePicture(photo string) string {
	if strings.TrimSpace(photo) != "" {
		return photo
	}
	if configured := viper.GetString("dashboard.profile-placeholder"); configured != "" {
		return configured
	}
	return defaultProfilePicture
}

func countString(v float64) string {
	if v > 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func deriveEmotion(raw RawPost) string {
	if raw.LLMEmotion != "" {
		return raw.LLMEmotion
	}
	if raw.Source == consts.PLATFORM_GMB && raw.Rating > 0 {
		switch {
		case raw.Rating >= 4:
			return "Supportive"
		case raw.Rating <= 2:
			return "Frustrated"
		default:
			return "Neutral"
		}
	}
	return ""
}

func deriveSentiment(raw RawPost) string {
	if raw.PredictedSentiment != "" {
		return raw.PredictedSentiment
	}
	if raw.Source == consts.PLATFORM_GMB && raw.Rating > 0 {
		switch {
		case raw.Rating >= 4:
			return "Positive"
		case raw.Rating <= 2:
			return "Negative"
		default:
			return "Neutral"
		}
	}
	return ""
}

// sourceIcon emits "<p_url>,<icon>". The comma-joined single string is
// what the frontend parses; changing the shape breaks every widget.
func sourceIcon(raw RawPost) string {
	icon := raw.Source
	if category, ok := sourceIconCategories[raw.Source]; ok {
		icon = category
	}
	return fmt.Sprintf("%s,%s", raw.URL, icon)
}

func cleanMessageText(raw RawPost) string {
	if raw.Source == consts.PLATFORM_GOOGLE_MAPS || raw.Source == consts.PLATFORM_TRIPADVISOR {
		text := raw.MessageText
		if idx := strings.Index(text, consts.REVIEW_TEXT_DELIMITER); idx >= 0 {
			text = text[:idx]
		}
		return strings.Replace(text, "\n", "<br>", -1)
	}

	text, err := html2text.FromString(raw.MessageText, html2text.Options{OmitLinks: true})
	if err != nil {
		return raw.MessageText
	}
	return text
}

// fixCommentsURL repairs the known malformed protocol variant emitted
// by an old collector ("https: // host" instead of "https://host").
func fixCommentsURL(commentsText string) string {
	fixed := strings.Replace(commentsText, "https: // ", "https://", 1)
	fixed = strings.Replace(fixed, "http: // ", "http://", 1)
	return strings.TrimSpace(fixed)
}
