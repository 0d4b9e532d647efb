package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Item categories. The hotel_* categories mark the synthetic items that
// anchor a hotel stay to its check-in and check-out days.
const (
	CategoryExperience    = "experience"
	CategoryRestaurant    = "restaurant"
	CategoryHotelCheckin  = "hotel_checkin"
	CategoryHotelCheckout = "hotel_checkout"
)

// Default collections every trip starts with.
const (
	CollectionExperiences = "experiences"
	CollectionRestaurants = "restaurants"
)

type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Destination is one city on the trip. Order in Trip.Destinations is the
// visit order; Nights may be zero (arrival and departure collapse into a
// single day).
type Destination struct {
	ID     string `json:"destinationId"`
	Place  Place  `json:"place"`
	Nights int    `json:"nights"`
}

func (d *Destination) Validate() error {
	if d.Place.Name == "" {
		return fmt.Errorf("destination name is required")
	}
	if d.Nights < 0 {
		return fmt.Errorf("nights must not be negative, got %d", d.Nights)
	}
	return nil
}

// Item is a saved place (experience, restaurant, or a synthetic hotel
// marker). ScheduledDay is nil while the item lives only in its collection;
// once placed on a day it holds the global day index and Order gives the
// position within that day.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	ScheduledDay    *int    `json:"scheduledDayIndex,omitempty"`
	Order           *int    `json:"order,omitempty"`
	DestinationID   string  `json:"destinationId,omitempty"`
	Source          string  `json:"source,omitempty"`
	HotelName       string  `json:"hotelName,omitempty"`
}

// Scheduled reports whether the item has been placed on a day.
func (it *Item) Scheduled() bool {
	return it.ScheduledDay != nil
}

// StayHotelName resolves the hotel name a hotel_checkin/hotel_checkout item
// refers to: the explicit HotelName field when set, otherwise the item title
// with its "Check in: " / "Check out: " prefix stripped.
func (it *Item) StayHotelName() string {
	if it.HotelName != "" {
		return it.HotelName
	}
	for _, prefix := range []string{"Check in: ", "Check-in: ", "Check out: ", "Check-out: "} {
		if strings.HasPrefix(it.Name, prefix) {
			return strings.TrimPrefix(it.Name, prefix)
		}
	}
	return it.Name
}

// Collection is a named bucket of saved items. Membership is by ID; the
// slice order is the collection's display order. An item belongs to at most
// one collection and may additionally be scheduled on a day.
type Collection struct {
	Name    string   `json:"name"`
	ItemIDs []string `json:"itemIds"`
}

func (c *Collection) contains(itemID string) bool {
	for _, id := range c.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

func (c *Collection) remove(itemID string) {
	for i, id := range c.ItemIDs {
		if id == itemID {
			c.ItemIDs = append(c.ItemIDs[:i], c.ItemIDs[i+1:]...)
			return
		}
	}
}

// Trip is the in-memory trip document: ordered destinations, named
// collections of saved items, and the item universe itself. Scheduled items
// are the subset of Items with ScheduledDay set.
type Trip struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	Destinations []*Destination   `json:"destinations"`
	Collections  []*Collection    `json:"collections"`
	Items        map[string]*Item `json:"items"`
}

// TotalDays is Σnights + 1: the checkout day of one destination doubles as
// the arrival day of the next, so the trailing day is counted once. A trip
// with no destinations has no days.
func (t *Trip) TotalDays() int {
	if len(t.Destinations) == 0 {
		return 0
	}
	total := 1
	for _, d := range t.Destinations {
		total += d.Nights
	}
	return total
}

// DayRange returns the inclusive [first, last] global day indices occupied
// by the given destination, and false if the destination is unknown. The
// shared boundary day (one city's checkout, the next city's arrival) belongs
// to the departing city, so the first destination spans nights+1 days and
// every later one spans nights. A non-first destination with zero nights has
// no days of its own (first > last): its only day is the previous city's
// checkout day.
func (t *Trip) DayRange(destinationID string) (int, int, bool) {
	cum := 0
	for i, d := range t.Destinations {
		first := cum
		if i > 0 {
			first = cum + 1
		}
		cum += d.Nights
		if d.ID == destinationID {
			return first, cum, true
		}
	}
	return 0, 0, false
}

// DestinationForDay returns the destination whose day range covers the
// given global day index. Boundary days resolve to the departing city.
func (t *Trip) DestinationForDay(day int) *Destination {
	cum := 0
	for i, d := range t.Destinations {
		first := cum
		if i > 0 {
			first = cum + 1
		}
		cum += d.Nights
		if day >= first && day <= cum {
			return d
		}
	}
	return nil
}

// DayItems returns the items scheduled on the given day, ordered by their
// intra-day position.
func (t *Trip) DayItems(day int) []*Item {
	var items []*Item
	for _, it := range t.Items {
		if it.ScheduledDay != nil && *it.ScheduledDay == day {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		oi, oj := orderOf(items[i]), orderOf(items[j])
		if oi != oj {
			return oi < oj
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// ScheduledItems returns every scheduled item ordered by (day, order).
func (t *Trip) ScheduledItems() []*Item {
	var items []*Item
	for _, it := range t.Items {
		if it.Scheduled() {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if *items[i].ScheduledDay != *items[j].ScheduledDay {
			return *items[i].ScheduledDay < *items[j].ScheduledDay
		}
		oi, oj := orderOf(items[i]), orderOf(items[j])
		if oi != oj {
			return oi < oj
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// Collection looks up a collection by name.
func (t *Trip) Collection(name string) *Collection {
	for _, c := range t.Collections {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// CollectionOf returns the collection an item belongs to, if any.
func (t *Trip) CollectionOf(itemID string) *Collection {
	for _, c := range t.Collections {
		if c.contains(itemID) {
			return c
		}
	}
	return nil
}

// UnscheduledItems returns the collection's items that are not placed on a
// day, in collection order. This is the collection-panel view: a scheduled
// item still belongs to its collection but is not shown as available.
func (t *Trip) UnscheduledItems(collection string) []*Item {
	c := t.Collection(collection)
	if c == nil {
		return nil
	}
	var items []*Item
	for _, id := range c.ItemIDs {
		if it, ok := t.Items[id]; ok && !it.Scheduled() {
			items = append(items, it)
		}
	}
	return items
}

// Clone deep-copies the trip so callers can hand it out without exposing
// store-internal state to mutation.
func (t *Trip) Clone() *Trip {
	out := &Trip{
		ID:    t.ID,
		Name:  t.Name,
		Items: make(map[string]*Item, len(t.Items)),
	}
	if t.StartDate != nil {
		d := *t.StartDate
		out.StartDate = &d
	}
	for _, d := range t.Destinations {
		dc := *d
		out.Destinations = append(out.Destinations, &dc)
	}
	for _, c := range t.Collections {
		cc := &Collection{Name: c.Name, ItemIDs: append([]string(nil), c.ItemIDs...)}
		out.Collections = append(out.Collections, cc)
	}
	for id, it := range t.Items {
		ic := *it
		if it.ScheduledDay != nil {
			v := *it.ScheduledDay
			ic.ScheduledDay = &v
		}
		if it.Order != nil {
			v := *it.Order
			ic.Order = &v
		}
		out.Items[id] = &ic
	}
	return out
}

func orderOf(it *Item) int {
	if it.Order == nil {
		return 1 << 30
	}
	return *it.Order
}

func intPtr(v int) *int { return &v }
