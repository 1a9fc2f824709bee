// Package driving provides interfaces exposed by the application core to
// external actors (primary/inbound ports).
package driving
