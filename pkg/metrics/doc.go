// Package metrics records login lifecycle metrics. New registers Prometheus
// collectors on the given registerer; NewNoop returns a recorder that does
// nothing, for when metrics are disabled.
package metrics
