package mqtt

import "fmt"

// Topics builds topic strings for the interconnect bridge.
//
// Layout (all under the configured prefix, default "glrt"):
//
//	{prefix}/system/status              runtime online/offline (retained)
//	{prefix}/discovery/announce         inbound device announcements
//	{prefix}/device/{address}/command   inbound commands for one device
//	{prefix}/runtime/event              outbound lifecycle events
//
// Device addresses appear verbatim in topics, so addresses must not contain
// '/', '+' or '#'. ValidAddress enforces this.
type Topics struct {
	prefix string
}

// NewTopics creates a topic builder for the given prefix.
// An empty prefix falls back to "glrt".
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = "glrt"
	}
	return Topics{prefix: prefix}
}

// SystemStatus returns the retained runtime status topic.
func (t Topics) SystemStatus() string {
	return t.prefix + "/system/status"
}

// DiscoveryAnnounce returns the topic devices announce themselves on.
func (t Topics) DiscoveryAnnounce() string {
	return t.prefix + "/discovery/announce"
}

// DeviceCommand returns the command topic for a specific device address.
func (t Topics) DeviceCommand(address string) string {
	return fmt.Sprintf("%s/device/%s/command", t.prefix, address)
}

// DeviceCommandPattern returns the wildcard pattern matching every device
// command topic. The address is the third topic segment.
func (t Topics) DeviceCommandPattern() string {
	return t.prefix + "/device/+/command"
}

// RuntimeEvent returns the topic lifecycle events are republished on.
func (t Topics) RuntimeEvent() string {
	return t.prefix + "/runtime/event"
}

// ValidAddress reports whether a device address is safe to embed in a topic.
func ValidAddress(address string) bool {
	if address == "" {
		return false
	}
	for _, r := range address {
		switch r {
		case '/', '+', '#', 0:
			return false
		}
	}
	return true
}
