package events

import (
	"encoding/json"
	"sync"

	log "github.com/Sirupsen/logrus"
	"github.com/google/uuid"
	"github.com/nats-io/go-nats-streaming"
	"github.com/pkg/errors"
)

type Payload struct {
	ID    int64  `json:"id"`
	Table string `json:"table"`
}

// Event is a committed catalog change
type Event struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

func NewEvent(eventType string, table string, id int64) Event {
	return Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Payload: Payload{ID: id, Table: table},
	}
}

type Publisher interface {
	Publish(e Event) error
	Close() error
}

// NatsPublisher writes events to a NATS streaming subject.
type NatsPublisher struct {
	sc      stan.Conn
	subject string
}

func NewNatsPublisher(url, clusterID, clientID, subject string) (*NatsPublisher, error) {
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, errors.Wrapf(err, "stan.Connect %s", url)
	}
	log.Infof("Connected to %s clusterID: [%s] clientID: [%s]", url, clusterID, clientID)
	return &NatsPublisher{sc: sc, subject: subject}, nil
}

func (p *NatsPublisher) Publish(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	return errors.Wrapf(p.sc.Publish(p.subject, data), "publish %s", e.Type)
}

func (p *NatsPublisher) Close() error {
	return p.sc.Close()
}

// NoopPublisher is used when NATS is disabled. It remembers the last events for inspection.
type NoopPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *NoopPublisher) Publish(e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	if len(p.events) > 100 {
		p.events = p.events[1:]
	}
	log.Debugf("event %s %s:%d", e.Type, e.Payload.Table, e.Payload.ID)
	return nil
}

func (p *NoopPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func (p *NoopPublisher) Close() error {
	return nil
}
