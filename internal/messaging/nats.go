// Package messaging provides a NATS client wrapper for the moderation
// pipeline. It handles connection lifecycle, the moderation subjects, and
// queue-group subscriptions so multiple moderator instances share the
// check-request load without double-processing.
package messaging

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects used by the moderation pipeline.
const (
	SubjectCheck  = "moderation.check"
	SubjectResult = "moderation.result" // + .<session_id>
	SubjectAlert  = "moderation.alert"  // reviewer notifications
)

// CheckQueueGroup is the queue group shared by moderator instances: NATS
// delivers each check request to exactly one member.
const CheckQueueGroup = "moderators"

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           "nats://localhost:4222",
		Name:          "gadgetswap-moderation",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready
// client. It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())

	return &NATSClient{
		conn: nc,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// PublishCheckRequest publishes a moderation check request. Called by the
// messaging API when a message needs review before delivery.
func (c *NATSClient) PublishCheckRequest(data []byte) error {
	return c.Publish(SubjectCheck, data)
}

// SubscribeCheckRequests subscribes to moderation check requests as part of
// the moderator queue group, so each request reaches exactly one instance.
func (c *NATSClient) SubscribeCheckRequests(handler func(data []byte)) error {
	sub, err := c.conn.QueueSubscribe(SubjectCheck, CheckQueueGroup, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats queue subscribe %s: %w", SubjectCheck, err)
	}

	c.mu.Lock()
	c.subs[SubjectCheck] = sub
	c.mu.Unlock()
	return nil
}

// PublishResult publishes a moderation verdict for a specific session.
func (c *NATSClient) PublishResult(sessionID string, data []byte) error {
	return c.Publish(SubjectResult+"."+sessionID, data)
}

// SubscribeResult subscribes to moderation verdicts for a specific session.
// Used by the messaging API side of the pipeline.
func (c *NATSClient) SubscribeResult(sessionID string, handler func(data []byte)) error {
	return c.subscribe(SubjectResult+"."+sessionID, handler)
}

// UnsubscribeResult unsubscribes from a session's verdict subject.
func (c *NATSClient) UnsubscribeResult(sessionID string) error {
	return c.unsubscribe(SubjectResult + "." + sessionID)
}

// PublishAlert publishes a reviewer notification for a flagged or blocked
// message.
func (c *NATSClient) PublishAlert(data []byte) error {
	return c.Publish(SubjectAlert, data)
}

// SubscribeAlerts subscribes to reviewer notifications.
func (c *NATSClient) SubscribeAlerts(handler func(data []byte)) error {
	return c.subscribe(SubjectAlert, handler)
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", subject, err)
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}

	log.Printf("[nats] client closed")
}

// subscribe registers a handler for a subject and stores the subscription
// internally for later cleanup.
func (c *NATSClient) subscribe(subject string, handler func(data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()
	return nil
}

// unsubscribe removes and unsubscribes from a specific subject.
func (c *NATSClient) unsubscribe(subject string) error {
	c.mu.Lock()
	sub, ok := c.subs[subject]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("nats: no subscription for subject %s", subject)
	}
	delete(c.subs, subject)
	c.mu.Unlock()

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("nats unsubscribe %s: %w", subject, err)
	}
	return nil
}
