// Package realtime carries task change events from the API server to any
// number of live board viewers. The server publishes an event after every
// successful task mutation; viewers subscribe and debounce a re-fetch.
package realtime

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// EventType mirrors the row operation that caused the event.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event describes a change to a single task row.
type Event struct {
	Type   EventType `json:"type"`
	TaskID string    `json:"task_id"`
	TeamID string    `json:"team_id"`
}

// SubjectPrefix is the root of the task change subject space. Subscribers
// use SubjectWildcard to receive events for all tasks.
const SubjectPrefix = "tasks.changed"

// SubjectWildcard matches every task change subject.
const SubjectWildcard = SubjectPrefix + ".>"

// Subject returns the NATS subject for one task's change events.
func Subject(taskID string) string {
	return SubjectPrefix + "." + taskID
}

// Publisher emits task change events. Publishing is fire-and-forget: a
// failed publish must never fail the request that caused it.
type Publisher interface {
	Publish(event Event)
}

// NATSPublisher publishes events to a NATS connection.
type NATSPublisher struct {
	nc  *nats.Conn
	log *logrus.Logger
}

// NewNATSPublisher creates a Publisher backed by the given connection.
func NewNATSPublisher(nc *nats.Conn, log *logrus.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, log: log}
}

func (p *NATSPublisher) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Warn("realtime: failed to encode event")
		return
	}
	if err := p.nc.Publish(Subject(event.TaskID), data); err != nil {
		p.log.WithError(err).WithField("task_id", event.TaskID).
			Warn("realtime: failed to publish event")
	}
}

// NopPublisher drops every event. It backs tests and deployments without a
// NATS endpoint configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
