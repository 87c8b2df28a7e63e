package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps of a stored record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a random ID and stamps both timestamps
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// BaseAggregateRoot adds an optimistic lock version and the events raised
// since the aggregate was last stored.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// Raise queues an event without touching the version
func (a *BaseAggregateRoot) Raise(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// Changed marks a state change of a stored aggregate: the version moves
// forward, UpdatedAt is refreshed and event is queued.
func (a *BaseAggregateRoot) Changed(event DomainEvent) {
	a.Version++
	a.Touch()
	a.Raise(event)
}

// PendingEvents returns the queued events
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// TakeEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) TakeEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
