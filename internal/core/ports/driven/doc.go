// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding backends, vector stores, generation
// backends, and document normalisers.
package driven
