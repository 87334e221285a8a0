package interconnect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
	"github.com/nerrad567/gray-logic-runtime/internal/events"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/mqtt"
)

// Broker is the slice of the MQTT client the bridge uses.
// *mqtt.Client satisfies it; tests substitute a fake.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Topics() mqtt.Topics
}

// Logger is the subset of logging the bridge needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Bridge connects the runtime to the MQTT interconnect.
type Bridge struct {
	rt     *ecs.Runtime
	kinds  *ecs.KindRegistry
	bus    *events.Bus
	broker Broker
	qos    byte
	logger Logger

	// ctx bounds the gateway submissions made from broker handler
	// goroutines. Set once in Run before subscribing.
	ctx context.Context
}

// New creates a bridge. Run must be called to subscribe and start the
// event republisher.
func New(rt *ecs.Runtime, kinds *ecs.KindRegistry, bus *events.Bus, broker Broker, qos byte, logger Logger) *Bridge {
	return &Bridge{
		rt:     rt,
		kinds:  kinds,
		bus:    bus,
		broker: broker,
		qos:    qos,
		logger: logger,
	}
}

// Run subscribes to the discovery and command topics and republishes
// runtime events until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	b.ctx = ctx
	topics := b.broker.Topics()

	if err := b.broker.Subscribe(topics.DiscoveryAnnounce(), b.qos, b.handleAnnounce); err != nil {
		return fmt.Errorf("subscribing to discovery: %w", err)
	}
	if err := b.broker.Subscribe(topics.DeviceCommandPattern(), b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}

	sub, cancel := b.bus.Subscribe()
	defer cancel()

	b.logger.Info("interconnect bridge running",
		"announce_topic", topics.DiscoveryAnnounce(),
		"command_topic", topics.DeviceCommandPattern(),
	)

	for {
		select {
		case <-ctx.Done():
			b.broker.Unsubscribe(topics.DiscoveryAnnounce())
			b.broker.Unsubscribe(topics.DeviceCommandPattern())
			return nil
		case ev, ok := <-sub:
			if !ok {
				return nil
			}
			b.republish(topics, ev)
		}
	}
}

// republish forwards one runtime event to the interconnect.
func (b *Bridge) republish(topics mqtt.Topics, ev ecs.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("marshalling runtime event", "error", err)
		return
	}
	if err := b.broker.Publish(topics.RuntimeEvent(), payload, b.qos, false); err != nil {
		b.logger.Warn("republishing runtime event", "error", err)
	}
}

// handleAnnounce registers a device from an announce message. The device's
// components and systems are built by kind label from the registry.
func (b *Bridge) handleAnnounce(_ string, payload []byte) error {
	msg, err := parseAnnounce(payload)
	if err != nil {
		return err
	}
	if !mqtt.ValidAddress(msg.Address) {
		return fmt.Errorf("%w: address %q not usable in topics", ErrBadAnnounce, msg.Address)
	}

	_, err = b.rt.RegisterDevice(b.ctx, msg.Address, func(e *ecs.Entity) error {
		if err := e.AttachComponent(NewInfo(msg.Address, msg.Name)); err != nil {
			return err
		}
		for _, kind := range msg.Components {
			c, err := b.kinds.NewComponent(kind)
			if err != nil {
				return err
			}
			if err := e.AttachComponent(c); err != nil {
				return err
			}
		}
		for _, kind := range msg.Systems {
			s, err := b.kinds.NewSystem(kind)
			if err != nil {
				return err
			}
			if err := e.AttachSystem(s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.logger.Warn("device announce rejected", "device_id", msg.Address, "error", err)
		return err
	}
	return nil
}

// handleCommand routes a command to the first Commandable system on the
// addressed device.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	addr, err := addressFromCommandTopic(topic)
	if err != nil {
		return err
	}
	msg, err := parseCommand(payload)
	if err != nil {
		return err
	}

	_, err = ecs.SubmitDevice(b.ctx, b.rt, addr, func(e *ecs.Entity, lane *ecs.Lane) (struct{}, error) {
		for _, kind := range e.SystemKinds() {
			sys, sysErr := e.System(kind)
			if sysErr != nil {
				continue
			}
			if c, ok := sys.(Commandable); ok {
				return struct{}{}, c.HandleCommand(lane, msg.Name, msg.Params)
			}
		}
		return struct{}{}, fmt.Errorf("%w: %q", ErrNoCommandHandler, addr)
	})
	if err != nil {
		b.logger.Warn("device command failed",
			"device_id", addr, "command", msg.Name, "error", err)
		return err
	}
	return nil
}
