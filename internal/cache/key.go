package cache

import (
	"net/url"
	"strings"
)

// RequestKey builds the cache key for a read: the resource prefix followed by
// the request path and its query with keys sorted, so equivalent requests share
// one entry.
func RequestKey(prefix, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(":")
	b.WriteString(path)
	if encoded := query.Encode(); encoded != "" {
		b.WriteString("?")
		b.WriteString(encoded)
	}
	return b.String()
}

// Only keeps the named parameters of query, so parameters a handler never
// reads cannot multiply its cache entries.
func Only(query url.Values, names ...string) url.Values {
	out := make(url.Values, len(names))
	for _, name := range names {
		if v := strings.TrimSpace(query.Get(name)); v != "" {
			out.Set(name, v)
		}
	}
	return out
}
