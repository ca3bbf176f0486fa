// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing calculator rules to remain
// independent of the SQL backend a deployment picks.
package store
