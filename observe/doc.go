// Package observe provides logging, tracing and metrics for remote API
// requests and cache activity.
//
// It is a pure instrumentation library: no execution and no I/O beyond
// exporter setup. The pco client and the query layer take an Observer (or the
// pieces of one) and report through it.
package observe
