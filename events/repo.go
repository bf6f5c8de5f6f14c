package events

import "errors"

var ErrEventNotFound = errors.New("event not found")

// EventRepo stores events for the development API server.
type EventRepo interface {
	Create(event *Event) error
	Get(ID int64) (*Event, error)
	List(userID string) ([]*Event, error)
	Update(event *Event) error
	Delete(ID int64) error
}
