// Package source provides index sources and utilities for composing them.
//
// Concrete sources live in subpackages: flatfile reads the pipe-delimited
// mapping file, s3object fetches that file from S3, and sqltable reads pairs
// from a database. The types in this package wrap any of them.
package source
