package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything persisted under a UUID
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries the identity and timestamps every table shares
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity assigns a fresh ID and stamps both timestamps
func NewBaseEntity() BaseEntity {
	at := Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: at, UpdatedAt: at}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch marks the entity as modified
func (e *BaseEntity) Touch() {
	e.UpdatedAt = Now()
}

// Now returns the current UTC time at microsecond precision, the resolution
// PostgreSQL keeps, so values read back compare equal to the ones written.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// AggregateRoot is an entity that records domain events until they are pulled
// for publication
type AggregateRoot interface {
	Entity
	PullEvents() []DomainEvent
}

// BaseAggregateRoot is embedded by aggregates that emit events. The events
// live in memory only; the application layer pulls them after commit.
type BaseAggregateRoot struct {
	BaseEntity
	events []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot creates an aggregate root with a fresh identity
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// Record queues an event
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.events = append(a.events, event)
}

// PendingEvents returns the queued events without removing them
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.events
}

// PullEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
