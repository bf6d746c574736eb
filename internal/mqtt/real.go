package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// outboxCapacity bounds how many messages are held across a broker outage.
const outboxCapacity = 64

// RealClient publishes to an actual MQTT broker and subscribes to the
// command and bark topics. Messages published while disconnected are queued
// and replayed on reconnect.
type RealClient struct {
	client paho.Client

	mu      sync.Mutex
	pending *outbox

	commands chan<- Command
	barks    chan<- BarkReport
}

// NewRealClient connects to the given broker. Received commands and bark
// reports are delivered on the given channels; either may be nil to skip
// the subscription.
func NewRealClient(broker string, commands chan<- Command, barks chan<- BarkReport) (*RealClient, error) {
	c := &RealClient{
		pending:  newOutbox(outboxCapacity),
		commands: commands,
		barks:    barks,
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("dog-trainer").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect)

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// onConnect runs on every (re)connect: paho does not restore subscriptions
// for clean sessions, so resubscribe here, then replay queued messages.
func (c *RealClient) onConnect(client paho.Client) {
	if c.commands != nil {
		if token := client.Subscribe(TopicCommand, 1, c.handleCommand); token.Wait() && token.Error() != nil {
			log.Printf("mqtt: subscribe %s: %v", TopicCommand, token.Error())
		}
	}
	if c.barks != nil {
		if token := client.Subscribe(TopicBark, 0, c.handleBark); token.Wait() && token.Error() != nil {
			log.Printf("mqtt: subscribe %s: %v", TopicBark, token.Error())
		}
	}

	c.mu.Lock()
	queued := c.pending.flush()
	c.mu.Unlock()
	for _, msg := range queued {
		if err := c.send(msg.topic, msg.qos, msg.retained, msg.payload); err != nil {
			log.Printf("mqtt: replay queued message: %v", err)
		}
	}
	if len(queued) > 0 {
		log.Printf("mqtt: replayed %d queued messages", len(queued))
	}
}

func (c *RealClient) handleCommand(_ paho.Client, msg paho.Message) {
	cmd, err := ParseCommand(msg.Payload())
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}
	select {
	case c.commands <- cmd:
	default:
		log.Printf("mqtt: command %q dropped, queue full", cmd.Command)
	}
}

func (c *RealClient) handleBark(_ paho.Client, msg paho.Message) {
	report := ParseBarkReport(msg.Payload())
	select {
	case c.barks <- report:
	default:
		log.Printf("mqtt: bark report dropped, queue full")
	}
}

// send publishes directly, or queues the message when disconnected.
func (c *RealClient) send(topic string, qos byte, retained bool, payload []byte) error {
	if !c.client.IsConnected() {
		c.mu.Lock()
		c.pending.add(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := c.pending.len()
		c.mu.Unlock()
		log.Printf("mqtt: disconnected, queued message for %s (%d pending)", topic, n)
		return nil
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Publish sends a trainer event to the MQTT broker.
func (p *RealClient) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is active.
func (p *RealClient) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealClient) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
