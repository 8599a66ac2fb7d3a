// Package accessor binds each Planning Center read to a cached query and each
// write to a mutation that evicts the reads it affects.
//
// Every query is keyed with cache.BuildKey(family, args...) using the
// family names below, so two accessors asking for the same data share one
// cache entry and one in-flight request.
package accessor
