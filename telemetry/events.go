// Package telemetry provides run statistics, bookmarks and performance tracking.
package telemetry

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventFoodSpawned EventType = iota
	EventFoodConsumed
	EventSelfBite
	EventContained
)

var eventNames = [...]string{"food_spawned", "food_consumed", "self_bite", "contained"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type   EventType
	Tick   int32
	Entity ecs.Entity
	Pos    r2.Vec

	// Optional fields depending on event type
	Amount float64 // food value
	Index  int     // bitten segment
}

// NewFoodSpawnedEvent creates a food spawn event.
func NewFoodSpawnedEvent(tick int32, food ecs.Entity, pos r2.Vec, amount float64) Event {
	return Event{
		Type:   EventFoodSpawned,
		Tick:   tick,
		Entity: food,
		Pos:    pos,
		Amount: amount,
	}
}

// NewFoodConsumedEvent creates an event for food eaten by the head.
func NewFoodConsumedEvent(tick int32, food ecs.Entity, pos r2.Vec, amount float64) Event {
	return Event{
		Type:   EventFoodConsumed,
		Tick:   tick,
		Entity: food,
		Pos:    pos,
		Amount: amount,
	}
}

// NewSelfBiteEvent creates an event for the head touching its own body.
func NewSelfBiteEvent(tick int32, segment ecs.Entity, index int) Event {
	return Event{
		Type:   EventSelfBite,
		Tick:   tick,
		Entity: segment,
		Index:  index,
	}
}

// NewContainedEvent creates an event for a containment correction of the head.
func NewContainedEvent(tick int32, head ecs.Entity, pos r2.Vec) Event {
	return Event{
		Type:   EventContained,
		Tick:   tick,
		Entity: head,
		Pos:    pos,
	}
}
