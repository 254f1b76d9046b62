package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntOrZero(t *testing.T) {
	assert.Equal(t, 12, ParseIntOrZero("12"))
	assert.Equal(t, 7, ParseIntOrZero(" 7 "))
	assert.Equal(t, 0, ParseIntOrZero(""))
	assert.Equal(t, 0, ParseIntOrZero("abc"))
	assert.Equal(t, 0, ParseIntOrZero("1.5"))
}

func TestParseBoolOrTrue(t *testing.T) {
	for _, v := range []string{"", "true", "TRUE", "1", "yes", "On", " yes "} {
		assert.True(t, ParseBoolOrTrue(v), v)
	}
	for _, v := range []string{"false", "0", "no", "off", "maybe"} {
		assert.False(t, ParseBoolOrTrue(v), v)
	}
}

func TestGenerateName(t *testing.T) {
	n := GenerateName(10)
	assert.Len(t, n, 10)
	assert.Contains(t, lettersBytes, string(n[0]))
}

func TestJoinErrors(t *testing.T) {
	assert.Nil(t, JoinErrors(nil, nil))
	one := assert.AnError
	assert.Equal(t, one, JoinErrors(one, nil))
	assert.Equal(t, one, JoinErrors(nil, one))
	assert.Contains(t, JoinErrors(one, one).Error(), "Prev Error")
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 2, MaxInt(1, 2))
}
