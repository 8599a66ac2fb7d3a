// Package query provides cached, observable data fetches ("queries") and
// side-effecting calls ("mutations") on top of a cache.Cache.
//
// A Query is bound to one cache key. Starting it serves a fresh cached
// payload without calling its fetch function, or fetches, stores the result
// and publishes it. Concurrent fetches of the same key share one call through
// singleflight. Each Query numbers its fetches so a late response from an
// older fetch, or from a stopped Query, never overwrites newer state.
//
// A Mutation never writes to the cache. On success it evicts the key prefixes
// its options declare so the next query refetches.
//
// # Lifecycle
//
//	q := query.New(qc, cache.BuildKey("plans", "st1"), fetchPlans, query.Options[[]pco.Plan]{})
//	q.Start(ctx)
//	defer q.Stop()
//	st := q.State()
package query
