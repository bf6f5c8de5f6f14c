package fakeeventrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-calendar-client/events"
)

var _ events.EventRepo = (*FakeEventRepo)(nil)

type FakeEventRepo struct {
	events map[int64]*events.Event
	nextID int64
	lock   sync.RWMutex
}

func NewFakeEventRepo() *FakeEventRepo {
	return &FakeEventRepo{
		events: make(map[int64]*events.Event),
		nextID: 1,
	}
}

func (er *FakeEventRepo) Create(event *events.Event) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	event.ID = er.nextID
	er.nextID++
	stored := *event
	er.events[event.ID] = &stored
	return nil
}

func (er *FakeEventRepo) Get(id int64) (*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	stored, ok := er.events[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	e := *stored
	return &e, nil
}

// List returns the user's events ordered by id. An empty userID lists all.
func (er *FakeEventRepo) List(userID string) ([]*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	list := make([]*events.Event, 0)
	for _, v := range er.events {
		if userID != "" && v.UserID != userID {
			continue
		}
		e := *v
		list = append(list, &e)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (er *FakeEventRepo) Update(event *events.Event) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if _, ok := er.events[event.ID]; !ok {
		return events.ErrEventNotFound
	}
	stored := *event
	er.events[event.ID] = &stored
	return nil
}

func (er *FakeEventRepo) Delete(id int64) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if _, ok := er.events[id]; !ok {
		return events.ErrEventNotFound
	}
	delete(er.events, id)
	return nil
}
