// Package flatfile reads the CUI to SNOMED CT mapping from a pipe-delimited text file.
//
// Each non-empty line holds at least two '|'-separated fields: the CUI and one of its codes.
// Fields are trimmed of surrounding whitespace and fields beyond the second are ignored.
// Lines that lack a CUI or a code are malformed and handled according to a Policy.
package flatfile
