package trip

// OptimizeDay reorders a day's items by geographic proximity:
// nearest-neighbor starting from the day's hotel when one is known,
// otherwise from the destination itself. Synthetic hotel markers keep their
// places; only real items are reordered.
func (s *Store) OptimizeDay(tripID string, day int) error {
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
	var movable []*Item
	for _, it := range items {
		if it.Category != CategoryHotelCheckin && it.Category != CategoryHotelCheckout {
			movable = append(movable, it)
		}
	}
	if len(movable) < 2 {
		return nil
	}

	start := dayStartPoint(t, day)
	ordered := nearestNeighborOrder(movable, start)

	// Write the new order back over the movable slots, leaving hotel
	// markers where they were.
	slot := 0
	for i, it := range items {
		if it.Category == CategoryHotelCheckin || it.Category == CategoryHotelCheckout {
			it.Order = intPtr(i)
			continue
		}
		ordered[slot].Order = intPtr(i)
		slot++
	}
	s.record(tripID, ActionReorder, "", "optimize")
	return nil
}

// dayStartPoint picks the route origin: the checked-in hotel's coordinates
// if a hotel item on the trip carries them, else the destination itself.
func dayStartPoint(t *Trip, day int) Place {
	hotel := HotelByDay(t)[day]
	if hotel != "" {
		for _, it := range t.Items {
			if it.Category == CategoryHotelCheckin && it.StayHotelName() == hotel &&
				(it.Lat != 0 || it.Lng != 0) {
				return Place{Name: hotel, Lat: it.Lat, Lng: it.Lng}
			}
		}
	}
	if d := t.DestinationForDay(day); d != nil {
		return d.Place
	}
	return Place{}
}

// nearestNeighborOrder greedily visits the closest unvisited item. Good
// enough for the handful of stops a day holds.
func nearestNeighborOrder(items []*Item, start Place) []*Item {
	remaining := append([]*Item(nil), items...)
	ordered := make([]*Item, 0, len(items))
	curLat, curLng := start.Lat, start.Lng

	for len(remaining) > 0 {
		best := 0
		bestDist := HaversineKm(curLat, curLng, remaining[0].Lat, remaining[0].Lng)
		for i := 1; i < len(remaining); i++ {
			d := HaversineKm(curLat, curLng, remaining[i].Lat, remaining[i].Lng)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		next := remaining[best]
		ordered = append(ordered, next)
		remaining = append(remaining[:best], remaining[best+1:]...)
		curLat, curLng = next.Lat, next.Lng
	}
	return ordered
}
