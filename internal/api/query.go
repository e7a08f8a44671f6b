package api

import (
	"net/url"
	"sort"
)

// BuildQuery renders params as "?k=v&k2=v2", skipping empty values.
// Keys are emitted in sorted order so the output is deterministic.
func BuildQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Set(k, params[k])
	}
	return "?" + q.Encode()
}
