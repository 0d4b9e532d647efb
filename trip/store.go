package trip

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrDestinationNotFound = errors.New("destination not found")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrCollectionExists    = errors.New("collection already exists")
	ErrDayOutOfRange       = errors.New("day index out of range")
	ErrIndexOutOfRange     = errors.New("item index out of range")
)

// Action identifies a store mutation in the journal.
type Action string

const (
	ActionCreateTrip       Action = "create_trip"
	ActionAddDestination   Action = "add_destination"
	ActionUpdateNights     Action = "update_nights"
	ActionRemoveDestination Action = "remove_destination"
	ActionCreateCollection Action = "create_collection"
	ActionSaveItem         Action = "save_item"
	ActionDeleteItem       Action = "delete_item"
	ActionSchedule         Action = "schedule"
	ActionReorder          Action = "reorder"
	ActionMove             Action = "move_between_days"
	ActionUnschedule       Action = "unschedule"
	ActionSetHotelStay     Action = "set_hotel_stay"
)

// Mutation is one journal entry. Every state change goes through a store
// action and lands here, so mutations are auditable and countable.
type Mutation struct {
	TripID string    `json:"tripId"`
	Action Action    `json:"action"`
	ItemID string    `json:"itemId,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Store holds every trip for the process lifetime. State is volatile: the
// trip model is session-local by design and nothing is persisted.
type Store struct {
	mu      sync.RWMutex
	trips   map[string]*Trip
	journal []Mutation
}

func NewStore() *Store {
	return &Store{trips: make(map[string]*Trip)}
}

func (s *Store) record(tripID string, action Action, itemID, detail string) {
	s.journal = append(s.journal, Mutation{
		TripID: tripID,
		Action: action,
		ItemID: itemID,
		Detail: detail,
		At:     time.Now(),
	})
}

// Journal returns a copy of the mutation log.
func (s *Store) Journal() []Mutation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mutation(nil), s.journal...)
}

// JournalLen reports how many mutations have been recorded.
func (s *Store) JournalLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.journal)
}

// ─── Trip lifecycle ───────────────────────────────────────────────────────────

// CreateTrip registers a new trip with its destination sequence and the two
// default collections.
func (s *Store) CreateTrip(name string, startDate *time.Time, destinations []Destination) (*Trip, error) {
	t := &Trip{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: startDate,
		Items:     make(map[string]*Item),
		Collections: []*Collection{
			{Name: CollectionExperiences},
			{Name: CollectionRestaurants},
		},
	}
	for i := range destinations {
		d := destinations[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("destination %d: %w", i, err)
		}
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		t.Destinations = append(t.Destinations, &d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[t.ID] = t
	s.record(t.ID, ActionCreateTrip, "", name)
	return t.Clone(), nil
}

// Trip returns a deep copy of the trip document.
func (s *Store) Trip(id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}
	return t.Clone(), nil
}

func (s *Store) get(id string) (*Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}
	return t, nil
}

// AddDestination appends a destination to the visit order.
func (s *Store) AddDestination(tripID string, d Destination) (*Destination, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	t.Destinations = append(t.Destinations, &d)
	s.record(tripID, ActionAddDestination, "", d.Place.Name)
	dc := d
	return &dc, nil
}

// UpdateNights changes a destination's night count. Scheduled items whose
// day index falls outside the new day range are unscheduled rather than
// left dangling.
func (s *Store) UpdateNights(tripID, destinationID string, nights int) error {
	if nights < 0 {
		return fmt.Errorf("nights must not be negative, got %d", nights)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	var dest *Destination
	for _, d := range t.Destinations {
		if d.ID == destinationID {
			dest = d
			break
		}
	}
	if dest == nil {
		return ErrDestinationNotFound
	}
	dest.Nights = nights

	total := t.TotalDays()
	for _, it := range t.Items {
		if it.ScheduledDay != nil && *it.ScheduledDay >= total {
			it.ScheduledDay = nil
			it.Order = nil
		}
	}
	s.record(tripID, ActionUpdateNights, "", fmt.Sprintf("%s=%d", dest.Place.Name, nights))
	return nil
}

// RemoveDestination deletes a destination. Its items stay in their
// collections but lose any day assignment, and items scheduled past the
// shrunk day range are unscheduled.
func (s *Store) RemoveDestination(tripID, destinationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	found := false
	for i, d := range t.Destinations {
		if d.ID == destinationID {
			t.Destinations = append(t.Destinations[:i], t.Destinations[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrDestinationNotFound
	}

	total := t.TotalDays()
	for _, it := range t.Items {
		if it.DestinationID == destinationID || (it.ScheduledDay != nil && *it.ScheduledDay >= total) {
			it.ScheduledDay = nil
			it.Order = nil
		}
	}
	s.record(tripID, ActionRemoveDestination, "", destinationID)
	return nil
}

// ─── Collections and items ────────────────────────────────────────────────────

// CreateCollection adds a custom list alongside the default ones.
func (s *Store) CreateCollection(tripID, name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	if t.Collection(name) != nil {
		return ErrCollectionExists
	}
	t.Collections = append(t.Collections, &Collection{Name: name})
	s.record(tripID, ActionCreateCollection, "", name)
	return nil
}

// SaveItem places an item into a collection. If the item already belongs to
// another collection it is moved; an item is in at most one collection.
func (s *Store) SaveItem(tripID, collection string, it Item) (*Item, error) {
	if it.Name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return nil, err
	}
	c := t.Collection(collection)
	if c == nil {
		return nil, ErrCollectionNotFound
	}
	if prev := t.CollectionOf(it.ID); prev != nil {
		prev.remove(it.ID)
	}
	t.Items[it.ID] = &it
	c.ItemIDs = append(c.ItemIDs, it.ID)
	s.record(tripID, ActionSaveItem, it.ID, collection)
	ic := it
	return &ic, nil
}

// DeleteItem removes an item from the trip entirely: its collection, and
// its day if scheduled. This is the one operation that shrinks the item
// universe; drag gestures never do.
func (s *Store) DeleteItem(tripID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	it, ok := t.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if c := t.CollectionOf(itemID); c != nil {
		c.remove(itemID)
	}
	day := -1
	if it.ScheduledDay != nil {
		day = *it.ScheduledDay
	}
	delete(t.Items, itemID)
	if day >= 0 {
		renumberDay(t, day)
	}
	s.record(tripID, ActionDeleteItem, itemID, "")
	return nil
}

// ─── Scheduling actions ───────────────────────────────────────────────────────

// ScheduleItem places a saved item onto a day at the given position. The
// item keeps its collection membership for categorization; it just stops
// showing up as unscheduled.
func (s *Store) ScheduleItem(tripID, itemID string, day, insertAt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	it, ok := t.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if day < 0 || day >= t.TotalDays() {
		return ErrDayOutOfRange
	}

	if it.ScheduledDay != nil {
		prev := *it.ScheduledDay
		it.ScheduledDay = nil
		it.Order = nil
		renumberDay(t, prev)
	}
	insertIntoDay(t, it, day, insertAt)
	if d := t.DestinationForDay(day); d != nil {
		it.DestinationID = d.ID
	}
	s.record(tripID, ActionSchedule, itemID, fmt.Sprintf("day=%d at=%d", day, insertAt))
	return nil
}

// ReorderItem moves the item at position from to position to within one
// day. Equal positions are a no-op and leave no journal entry.
func (s *Store) ReorderItem(tripID string, day, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	if day < 0 || day >= t.TotalDays() {
		return ErrDayOutOfRange
	}
	items := t.DayItems(day)
	if from < 0 || from >= len(items) {
		return ErrIndexOutOfRange
	}
	if to < 0 {
		to = 0
	}
	if to >= len(items) {
		to = len(items) - 1
	}
	if from == to {
		return nil
	}

	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]*Item{moved}, items[to:]...)...)
	for i, it := range items {
		it.Order = intPtr(i)
	}
	s.record(tripID, ActionReorder, moved.ID, fmt.Sprintf("day=%d %d->%d", day, from, to))
	return nil
}

// MoveItemBetweenDays relocates a scheduled item from one day to another.
// Day item counts shift by exactly one; the total scheduled count is
// unchanged.
func (s *Store) MoveItemBetweenDays(tripID string, fromDay, toDay int, itemID string, insertAt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	it, ok := t.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if toDay < 0 || toDay >= t.TotalDays() {
		return ErrDayOutOfRange
	}
	if it.ScheduledDay == nil || *it.ScheduledDay != fromDay {
		return fmt.Errorf("item %s is not scheduled on day %d", itemID, fromDay)
	}

	it.ScheduledDay = nil
	it.Order = nil
	renumberDay(t, fromDay)
	insertIntoDay(t, it, toDay, insertAt)
	if d := t.DestinationForDay(toDay); d != nil {
		it.DestinationID = d.ID
	}
	s.record(tripID, ActionMove, itemID, fmt.Sprintf("%d->%d at=%d", fromDay, toDay, insertAt))
	return nil
}

// UnscheduleItem clears an item's day assignment. The item remains in its
// collection and shows up as unscheduled again.
func (s *Store) UnscheduleItem(tripID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	it, ok := t.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if it.ScheduledDay == nil {
		return nil
	}
	day := *it.ScheduledDay
	it.ScheduledDay = nil
	it.Order = nil
	renumberDay(t, day)
	s.record(tripID, ActionUnschedule, itemID, fmt.Sprintf("day=%d", day))
	return nil
}

// SetHotelStay records a hotel stay as a pair of synthetic scheduled items
// on the check-in and check-out days. An existing pair for the same
// destination is replaced.
func (s *Store) SetHotelStay(tripID, destinationID, hotelName string, checkInDay, checkOutDay int) error {
	if hotelName == "" {
		return fmt.Errorf("hotel name is required")
	}
	if checkOutDay < checkInDay {
		return fmt.Errorf("check-out day %d is before check-in day %d", checkOutDay, checkInDay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.get(tripID)
	if err != nil {
		return err
	}
	total := t.TotalDays()
	if checkInDay < 0 || checkInDay >= total || checkOutDay >= total {
		return ErrDayOutOfRange
	}

	for id, it := range t.Items {
		if it.DestinationID == destinationID &&
			(it.Category == CategoryHotelCheckin || it.Category == CategoryHotelCheckout) {
			delete(t.Items, id)
		}
	}

	checkin := &Item{
		ID:            uuid.New().String(),
		Name:          "Check in: " + hotelName,
		Category:      CategoryHotelCheckin,
		HotelName:     hotelName,
		DestinationID: destinationID,
		ScheduledDay:  intPtr(checkInDay),
		Order:         intPtr(0),
	}
	checkout := &Item{
		ID:            uuid.New().String(),
		Name:          "Check out: " + hotelName,
		Category:      CategoryHotelCheckout,
		HotelName:     hotelName,
		DestinationID: destinationID,
		ScheduledDay:  intPtr(checkOutDay),
		Order:         intPtr(0),
	}
	t.Items[checkin.ID] = checkin
	t.Items[checkout.ID] = checkout
	s.record(tripID, ActionSetHotelStay, "", fmt.Sprintf("%s days %d-%d", hotelName, checkInDay, checkOutDay))
	return nil
}

// ─── Day-level helpers ────────────────────────────────────────────────────────

// insertIntoDay places the item at insertAt within the day (clamped to the
// day's bounds) and renumbers so orders stay contiguous.
func insertIntoDay(t *Trip, it *Item, day, insertAt int) {
	items := t.DayItems(day)
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(items) {
		insertAt = len(items)
	}
	items = append(items[:insertAt], append([]*Item{it}, items[insertAt:]...)...)
	it.ScheduledDay = intPtr(day)
	for i, x := range items {
		x.Order = intPtr(i)
	}
}

// renumberDay re-assigns contiguous orders after a removal.
func renumberDay(t *Trip, day int) {
	for i, it := range t.DayItems(day) {
		it.Order = intPtr(i)
	}
}
