// Package sanitize cleans user supplied markup before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// HTML keeps basic formatting and links and drops scripts, handlers and
// unsafe URLs.
func HTML(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// Text strips every tag.
func Text(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}
