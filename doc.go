// Package mapentry translates UMLS concept identifiers (CUIs) into SNOMED CT codes.
//
// A concept index is built once from an IndexSource and is read-only afterwards.
// ConceptIndex wraps such an index and reports lookups as explicit outcomes:
// a LookupResult for a single CUI and an all-or-nothing Resolution for a batch.
//
// The subpackages provide the pieces of the service:
//
//   - index/memindex: the in-memory concept index
//   - source, source/flatfile, source/s3object, source/sqltable: index sources
//   - cts2: the CTS2 XML documents
//   - httpapi: the HTTP handlers
package mapentry
