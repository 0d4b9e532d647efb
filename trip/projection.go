package trip

import (
	"sort"
	"time"
)

// Day is one derived calendar day of the trip. Date is nil when the trip
// has no start date; renderers treat that as "unknown date".
type Day struct {
	DayIndex      int        `json:"dayIndex"`
	Date          *time.Time `json:"date"`
	DestinationID string     `json:"destinationId"`
	Items         []*Item    `json:"items"`
	HotelName     string     `json:"hotelName,omitempty"`
}

// CityBlock groups the days spent at one destination. TransitTo is set on
// every block except the last.
type CityBlock struct {
	DestinationID string  `json:"destinationId"`
	Name          string  `json:"name"`
	Nights        int     `json:"nights"`
	Days          []Day   `json:"days"`
	TransitTo     *Transit `json:"transitTo,omitempty"`
}

// Project expands the trip into its city blocks. Day emission matches
// TotalDays: the first destination contributes nights+1 days and every
// later one contributes nights, because the checkout day of one city and
// the arrival day of the next are the same day and it belongs to the
// departing city's block. A non-first zero-night stop therefore gets an
// empty Days slice; it is still present on the itinerary, on the previous
// block's last day. Global day indices are contiguous and strictly
// increasing across destinations in visit order. Recomputed from scratch
// on demand; day counts are tens, not thousands.
func Project(t *Trip, est TransitEstimator) []CityBlock {
	if est == nil {
		est = DefaultEstimator()
	}
	hotels := HotelByDay(t)

	blocks := make([]CityBlock, 0, len(t.Destinations))
	dayIndex := 0
	for i, d := range t.Destinations {
		block := CityBlock{
			DestinationID: d.ID,
			Name:          d.Place.Name,
			Nights:        d.Nights,
		}
		count := d.Nights
		if i == 0 {
			count = d.Nights + 1
		}
		for offset := 0; offset < count; offset++ {
			day := Day{
				DayIndex:      dayIndex,
				DestinationID: d.ID,
				Items:         t.DayItems(dayIndex),
				HotelName:     hotels[dayIndex],
			}
			if t.StartDate != nil {
				date := t.StartDate.AddDate(0, 0, dayIndex)
				day.Date = &date
			}
			block.Days = append(block.Days, day)
			dayIndex++
		}
		if i < len(t.Destinations)-1 {
			tr := est.Estimate(*d, *t.Destinations[i+1])
			block.TransitTo = &tr
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Project is the store-level entry point: it snapshots the trip under the
// read lock and projects the copy.
func (s *Store) Project(tripID string, est TransitEstimator) ([]CityBlock, error) {
	t, err := s.Trip(tripID)
	if err != nil {
		return nil, err
	}
	return Project(t, est), nil
}

// HotelByDay resolves hotel occupancy from the synthetic check-in and
// check-out items: every day in [checkInDay, checkOutDay) maps to the hotel
// name. A check-in with no matching check-out is bounded at the end of its
// destination's stay instead of running open-ended. Fills are applied in
// ascending check-in order, so later stays win at overlapping days.
func HotelByDay(t *Trip) map[int]string {
	var checkins, checkouts []*Item
	for _, it := range t.Items {
		if it.ScheduledDay == nil {
			continue
		}
		switch it.Category {
		case CategoryHotelCheckin:
			checkins = append(checkins, it)
		case CategoryHotelCheckout:
			checkouts = append(checkouts, it)
		}
	}
	sort.Slice(checkins, func(i, j int) bool {
		return *checkins[i].ScheduledDay < *checkins[j].ScheduledDay
	})
	sort.Slice(checkouts, func(i, j int) bool {
		return *checkouts[i].ScheduledDay < *checkouts[j].ScheduledDay
	})

	total := t.TotalDays()
	used := make(map[*Item]bool)
	out := make(map[int]string)

	for _, in := range checkins {
		name := in.StayHotelName()
		start := *in.ScheduledDay
		end := -1
		for _, co := range checkouts {
			if used[co] || *co.ScheduledDay < start {
				continue
			}
			if co.StayHotelName() == name {
				used[co] = true
				end = *co.ScheduledDay
				break
			}
		}
		if end < 0 {
			// Unmatched check-out: the stay cannot outlive the
			// destination it belongs to.
			if _, last, ok := t.DayRange(in.DestinationID); ok {
				end = last + 1
			} else {
				end = total
			}
		}
		if end > total {
			end = total
		}
		for day := start; day < end; day++ {
			out[day] = name
		}
	}
	return out
}
