/*
Package observability exposes simulator activity as Prometheus metrics.

Metrics are fed exclusively through domain.LifecycleHooks, so the engine has
no dependency on Prometheus. Hook sets from several consumers can be merged
with Combine.
*/
package observability
