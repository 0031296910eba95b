package utils

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Languages the listening pipeline actually ingests; detection outside
// this set is noise on short social posts.
var whatlangoWhitelist = map[whatlanggo.Lang]bool{
	whatlanggo.Eng: true,
	whatlanggo.Arb: true,
	whatlanggo.Fra: true,
	whatlanggo.Spa: true,
	whatlanggo.Por: true,
	whatlanggo.Deu: true,
	whatlanggo.Ita: true,
	whatlanggo.Nld: true,
	whatlanggo.Tur: true,
	whatlanggo.Rus: true,
	whatlanggo.Hin: true,
	whatlanggo.Urd: true,
	whatlanggo.Cmn: true,
	whatlanggo.Jpn: true,
	whatlanggo.Kor: true,
}

// DetectPostLanguage returns the ISO 639-1 code of a post's text, or
// the ISO 639-3 code when no two-letter form exists. Empty string for
// blank or undetectable text.
func DetectPostLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Whitelist: whatlangoWhitelist})
	iso3 := whatlanggo.LangToString(info.Lang)
	if iso3 == "" {
		return ""
	}
	if base, err := language.ParseBase(iso3); err == nil {
		return base.String()
	}
	return iso3
}
