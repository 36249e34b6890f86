// Package mocks provides hand-written test doubles for the service and
// store interfaces. Each mock exposes optional function fields so tests can
// override exactly the calls they care about, with zero-value defaults for
// the rest.
package mocks
