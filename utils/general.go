package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const uidBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const lettersBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var rnd = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

// Random identifier starting with a letter
func GenerateName(n int) string {
	b := make([]byte, n)
	b[0] = lettersBytes[rnd.Intn(len(lettersBytes))]
	for i := range b[1:] {
		b[i+1] = uidBytes[rnd.Intn(len(uidBytes))]
	}
	return string(b)
}

// panic if err != nil
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Joins two errors to one.
func JoinErrors(one error, two error) error {
	if one == nil && two == nil {
		return nil
	}
	if one != nil && two != nil {
		return errors.Wrapf(two, "%s\nPrev Error", one.Error())
	}
	if one != nil {
		return one
	}
	return two
}

// Like math.Min for int
func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// Like math.Max for int
func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// ParseIntOrZero is lenient integer parsing for imported data.
// Blank or malformed values yield 0.
func ParseIntOrZero(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseBoolOrTrue accepts true/1/yes/on (any case).
// A blank value defaults to true.
func ParseBoolOrTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return true
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
