// Package postgres implements the service repository interfaces on
// database/sql with the lib/pq driver. All queries are owner-scoped; a row
// belonging to another owner is indistinguishable from a missing row.
package postgres
