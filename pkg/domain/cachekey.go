package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// CacheKey derives a stable answer-cache key from a question and its user
// context. Questions differing only in case or surrounding whitespace share
// a key; context fields participate in sorted order.
func CacheKey(question string, userContext map[string]string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(question))))

	keys := make([]string, 0, len(userContext))
	for k := range userContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%s", k, userContext[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
