package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karchag/karchag-backend/consts"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, consts.LANG_ENGLISH, DetectLanguage("Heart Sutra", ""))
	assert.Equal(t, consts.LANG_TIBETAN, DetectLanguage("ཤེས་རབ་སྙིང་པོ", ""))
	assert.Equal(t, consts.LANG_TIBETAN, DetectLanguage("般若波羅蜜多心經", ""))
	assert.Equal(t, consts.LANG_ENGLISH, DetectLanguage("", ""))
	assert.Equal(t, consts.LANG_TIBETAN, DetectLanguage("", "bo"))
	assert.Equal(t, consts.LANG_ENGLISH, DetectLanguage("", "en-US,en;q=0.9"))
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, consts.LANG_TIBETAN, NormalizeLanguage("tb"))
	assert.Equal(t, consts.LANG_TIBETAN, NormalizeLanguage("TB"))
	assert.Equal(t, consts.LANG_ENGLISH, NormalizeLanguage("en"))
	assert.Equal(t, consts.LANG_ENGLISH, NormalizeLanguage(""))
	assert.Equal(t, consts.LANG_ENGLISH, NormalizeLanguage("fr"))
}

func TestNormalizeQuery(t *testing.T) {
	// e + combining acute composes to a single rune
	assert.Equal(t, "é", NormalizeQuery(" é "))
	assert.True(t, IsTibetan("abc ཀ"))
	assert.False(t, IsTibetan("abc"))
}
