// Package mock implements an in-process stand-in for the Anytype REST API.
// Server is an http.Handler covering the object and table row endpoints used
// by this module; it stores documents in a Store, either in memory or in an
// embedded badger database. It backs package tests, the in_memory demo and the
// anytype-sandbox command.
package mock
