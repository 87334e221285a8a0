// Package mqtt wraps paho.mqtt.golang for the interconnect bridge.
//
// It provides:
//   - Connection management with auto-reconnect and exponential backoff
//   - Publishing with QoS and payload validation
//   - Subscriptions that survive reconnects (tracked and restored)
//   - Panic recovery around message handlers
//   - Online/offline status via Last Will and Testament
//
// Topic layout is defined in topics.go. All topics live under a configurable
// prefix (default "glrt") so multiple runtime instances can share a broker.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix)
//	err = client.Subscribe(topics.DiscoveryAnnounce(), 1, handleAnnounce)
package mqtt
