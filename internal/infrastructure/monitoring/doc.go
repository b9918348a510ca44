/*
Package monitoring collects Prometheus metrics for web service calls.

Collectors live on a private registry so several clients can coexist in one
process; expose it with promhttp when the host application serves metrics:

	metrics := monitoring.NewMetrics()
	http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

Calls are timed with a Timer:

	timer := monitoring.NewTimer(metrics, "GET", "products")
	// ... perform call ...
	timer.Stop(200, 0, len(body))
*/
package monitoring
