// Package cts2 builds the CTS2 XML documents of the UMLS to SNOMED CT map.
//
// Documents are typed encoding/xml values. Element names carry their
// namespace prefixes literally so the output keeps the prefixes and
// namespace declarations clients of the CTS2 schemas expect.
package cts2
