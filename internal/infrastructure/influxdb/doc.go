// Package influxdb provides the telemetry sink for runtime metrics.
//
// It wraps the InfluxDB v2 client with non-blocking batched writes. The
// telemetry sampler periodically records gateway statistics (queue depth,
// processed and faulted unit counts, busy time) so operators can watch the
// serialisation point under load.
//
// Writes never block the caller: points are buffered, batched, and flushed
// on an interval. Async write failures surface through the error callback.
package influxdb
