// Package domain contains the core types and error taxonomy of the
// retrieval pipeline. It has no dependencies on adapters or services.
package domain
