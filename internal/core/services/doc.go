// Package services implements the application core: the ingestion and query
// pipelines, context assembly, and answer generation. Services depend only
// on domain types and driven ports; adapters are injected at construction.
package services
