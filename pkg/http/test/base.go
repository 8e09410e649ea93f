package lhttptest

import (
	"net/http"
	"net/textproto"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func MethodGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(http.MethodGet),
		rapid.Just(http.MethodPost),
		rapid.Just(http.MethodPut),
		rapid.Just(http.MethodDelete),
	)
}

func UrlGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`(http://|https://)[a-z]+[a-z0-9-]*(:[0-9]+)?(/[a-z0-9-]+)*/?`)
}

func CodeGenerator() *rapid.Generator[int] {
	return rapid.IntRange(200, 599)
}

func HeadersGenerator() *rapid.Generator[http.Header] {
	return rapid.Map(
		rapid.MapOf(
			rapid.Map(
				rapid.StringMatching(`\w+`),
				func(s string) string {
					return textproto.CanonicalMIMEHeaderKey(s)
				},
			),
			rapid.SliceOf(rapid.String()),
		),
		func(v map[string][]string) http.Header { return v })
}

// CanonicalHeadersGenerator draws dash separated header keys that are already canonical
func CanonicalHeadersGenerator() *rapid.Generator[http.Header] {
	return rapid.Map(
		rapid.MapOf(
			rapid.StringMatching(`[A-Z][a-z]{0,8}(-[A-Z][a-z]{0,8}){0,2}`),
			rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z0-9 ;=*/.-]{0,16}`), 1, 3),
		),
		func(v map[string][]string) http.Header { return v })
}

func CheckHeaders(t assert.TestingT, ref, other http.Header) {
	for k, vals := range ref {
		otherVals := other.Values(k)
		assert.Subsetf(t, vals, otherVals, "values don't match for key %s", k)
		assert.Subsetf(t, otherVals, vals, "values don't match for key %s", k)
		assert.NotRegexp(t, "_", k, "header keys can't have underscore")
	}
}
