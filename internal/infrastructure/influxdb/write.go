package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteGatewaySample records one sample of access-gateway statistics.
//
// The write is non-blocking; points are batched and sent asynchronously.
//
// Parameters:
//   - siteID: Installation identifier, used as a tag
//   - queueDepth: Units of work waiting in the gateway queue
//   - processed: Cumulative count of completed units
//   - faulted: Cumulative count of units that panicked
//   - busy: Cumulative time the gateway spent executing units
func (c *Client) WriteGatewaySample(siteID string, queueDepth int, processed, faulted uint64, busy time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"gateway",
		map[string]string{
			"site": siteID,
		},
		map[string]interface{}{
			"queue_depth":     queueDepth,
			"units_processed": int64(processed), // #nosec G115 -- counters fit in int64
			"units_faulted":   int64(faulted),   // #nosec G115
			"busy_seconds":    busy.Seconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRegistrySample records the current device and entity population.
func (c *Client) WriteRegistrySample(siteID string, devices, entities int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"registry",
		map[string]string{
			"site": siteID,
		},
		map[string]interface{}{
			"devices":  devices,
			"entities": entities,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("event_bus",
//	    map[string]string{"site": "home"},
//	    map[string]interface{}{"dropped": 3, "subscribers": 2})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
