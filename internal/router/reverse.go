package router

import (
	"fmt"
	"net/url"
	"strings"
)

// Reverse expands a location such as "/events/:event_slug/shop" into a path.
//
// Every ":name" segment is replaced with the path-escaped params[name]. Parameters with empty
// values are treated as absent. Returns an error naming the first
// placeholder without a value.
func Reverse(location string, params map[string]string) (string, error) {
	segments := strings.Split(location, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		value := params[name]
		if value == "" {
			return "", fmt.Errorf("cannot reverse %q: missing parameter %q", location, name)
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}
