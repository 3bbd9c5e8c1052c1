package random

import (
	"math/rand"
	"strings"
	"time"
)

var randSrc = rand.NewSource(time.Now().UnixNano())

// RandString returns a random alphabetic string of length n, used for
// session identifiers.
func RandString(n int) string {
	letterBytes := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	letterIdxBits := 6
	letterIdxMask := 1<<letterIdxBits - 1
	letterIdxMax := 63 / letterIdxBits
	sb := strings.Builder{}
	sb.Grow(n)
	for i, cache, remain := n-1, randSrc.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = randSrc.Int63(), letterIdxMax
		}
		if idx := int(cache & int64(letterIdxMask)); idx < len(letterBytes) {
			sb.WriteByte(letterBytes[idx])
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return sb.String()
}
