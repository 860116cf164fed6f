// Package core defines the prompt records that flow through the ingestion
// pipeline and the domain rules they must satisfy.
//
// A RawRecord is produced by a source adapter, an EnrichedRecord is a RawRecord
// with style tags attached and is what gets written to a store. The prompt text
// is the identity key of both.
package core
