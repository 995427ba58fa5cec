// Package tables manages the rows of an Anytype table. A Manager is scoped to
// one table inside one space, and rows are sent as a map of column values.
package tables
