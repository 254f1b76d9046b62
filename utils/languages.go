package utils

import (
	"strings"
	"unicode"

	log "github.com/Sirupsen/logrus"
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/karchag/karchag-backend/consts"
)

var serverLangs = []language.Tag{
	language.English, // first is the default
	language.Make("bo"),
}

var matcher = language.NewMatcher(serverLangs)

// NormalizeQuery trims and NFC normalizes a user supplied search term.
// Tibetan stacks typed on different keyboards may arrive decomposed.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// IsTibetan reports whether the text contains any rune of the Tibetan block.
func IsTibetan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Tibetan, r) {
			return true
		}
	}
	return false
}

// DetectLanguage picks the catalog language (en or tb) for a search term.
// Latin script means English, any other script means the Tibetan catalog fields
// (tibetan, chinese and sanskrit titles). An empty term falls back to Accept-Language.
func DetectLanguage(text string, acceptLanguage string) string {
	if text != "" {
		if IsTibetan(text) {
			return consts.LANG_TIBETAN
		}
		script := whatlanggo.DetectScript(text)
		log.Debugf("DetectLanguage: whatlanggo script for %q: %v", text, script != nil)
		if script == unicode.Latin {
			return consts.LANG_ENGLISH
		}
		if script != nil {
			return consts.LANG_TIBETAN
		}
	}

	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err != nil {
			log.Debugf("DetectLanguage: bad Accept-Language %q: %s", acceptLanguage, err.Error())
		} else if len(tags) > 0 {
			_, idx, confidence := matcher.Match(tags...)
			if confidence != language.No && idx == 1 {
				return consts.LANG_TIBETAN
			}
		}
	}

	return consts.LANG_ENGLISH
}

// NormalizeLanguage maps the lang query parameter to a supported language.
func NormalizeLanguage(lang string) string {
	if strings.ToLower(lang) == consts.LANG_TIBETAN || strings.ToLower(lang) == "bo" {
		return consts.LANG_TIBETAN
	}
	return consts.LANG_ENGLISH
}
