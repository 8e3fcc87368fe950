package extraction

import (
	"regexp"
	"strings"
)

// sizeCode matches an image size segment such as _SX300_ or _AC100_
var sizeCode = regexp.MustCompile(`_([A-Z]+)\d+_`)

// HighResMarker is the size segment that requests the large image variant
const HighResMarker = "_SL1500_"

// Normalize trims s and collapses internal whitespace runs to single spaces
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RewriteImageURL replaces the first size segment of an image URL with the
// high resolution marker. Applying it twice gives the same result as once.
func RewriteImageURL(src string) string {
	loc := sizeCode.FindStringIndex(src)
	if loc == nil {
		return src
	}
	return src[:loc[0]] + HighResMarker + src[loc[1]:]
}

func isHTTP(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
