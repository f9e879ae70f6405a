// Package httpapi serves the CTS2 map entry resources over HTTP.
//
// Routes are registered on an echo group under the map version prefix of
// the renderer, /map/UMLS_TO_SNOMEDCT/version/{version}:
//
//	GET /entry/:cui             single map entry, or 404
//	GET /resolution?mapfrom=... targets of a comma-separated list of CUIs or CUI URIs, all or nothing
//	GET /entrybyuri?uri=...     302 to the canonical entry URL, or 404
//
// A request without mapfrom or uri answers 400. Any other path answers with
// the not-found document naming the last path segment.
package httpapi
