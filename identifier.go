package mapentry

import (
	"slices"
	"strings"

	"github.com/karupanerura/cts2-mapentry/internal/iterutil"
)

// NormalizeIdentifier turns a CUI or a CUI URI into a CUI.
// A token containing '/' is reduced to its final '/'-delimited segment;
// any other token is returned unchanged.
func NormalizeIdentifier(token string) string {
	if i := strings.LastIndexByte(token, '/'); i >= 0 {
		return token[i+1:]
	}
	return token
}

// NormalizeIdentifiers normalizes every token and drops repeated CUIs,
// keeping the first occurrence of each in input order.
func NormalizeIdentifiers(tokens []string) []string {
	return slices.Collect(iterutil.Uniq(iterutil.Map(slices.Values(tokens), NormalizeIdentifier)))
}

// SplitIdentifiers splits a comma-separated list of CUIs or CUI URIs and normalizes it.
func SplitIdentifiers(list string) []string {
	return NormalizeIdentifiers(strings.Split(list, ","))
}
