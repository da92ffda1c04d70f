// Package ids generates short prefixed identifiers such as "cat_1sXk9ZpQ2...".
// Time-sortable IDs start with the creation second so they order by age.
package ids

import (
	"crypto/rand"
	"strings"
	"time"
)

const (
	alphabet        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	timestampLength = 6
	randomLength    = 18
)

// EncodeTimestamp encodes t's Unix second as six base62 digits. The encoding
// sorts lexicographically in time order until roughly the year 3700.
func EncodeTimestamp(t time.Time) string {
	n := t.Unix()
	if n < 0 {
		n = 0
	}
	out := make([]byte, timestampLength)
	for i := timestampLength - 1; i >= 0; i-- {
		out[i] = alphabet[n%62]
		n /= 62
	}
	return string(out)
}

// Random returns n uniformly distributed base62 characters from crypto/rand.
func Random(n int) string {
	var b strings.Builder
	b.Grow(n)
	buf := make([]byte, n+n/4+4)
	for b.Len() < n {
		if _, err := rand.Read(buf); err != nil {
			panic("ids: failed to read random bytes: " + err.Error())
		}
		for _, c := range buf {
			// 248 = 4*62; rejecting the rest keeps the distribution uniform
			if c >= 248 {
				continue
			}
			b.WriteByte(alphabet[c%62])
			if b.Len() == n {
				break
			}
		}
	}
	return b.String()
}

// New returns a time-sortable ID: prefix, "_", timestamp, random suffix.
func New(prefix string) string {
	return prefix + "_" + EncodeTimestamp(time.Now()) + Random(randomLength)
}
