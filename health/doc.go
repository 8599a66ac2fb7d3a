// Package health reports whether the gateway and its dependencies can serve
// traffic.
//
// A Checker reports one component as Healthy, Degraded or Unhealthy. The
// package ships checkers for the remote API (a ping with a latency budget),
// the client circuit breaker, and the cache store (a write/read round trip,
// plus an entry-count budget for the unbounded in-memory store).
//
// # Aggregating
//
//	agg := health.NewAggregator()
//	agg.Register("pco", health.NewRemoteAPIChecker(client, 2*time.Second))
//	agg.Register("circuit", health.NewCircuitChecker(breaker))
//	agg.Register("cache", health.NewCacheChecker(store))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// Routes mounts the probes on a chi router:
//
//	/healthz         liveness, always 200
//	/readyz          200 unless a check is unhealthy
//	/health          JSON report of every check
//	/health/{check}  JSON report of one check
package health
