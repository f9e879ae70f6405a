// Package index provides adapters for the mapentry.Index and mapentry.IndexSource
// interfaces, and hosts the concept index implementations.
//
// The primary subpackage is memindex, the in-memory concept index that is loaded
// once at startup and read concurrently by the request handlers afterwards.
package index
