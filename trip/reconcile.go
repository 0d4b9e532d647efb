package trip

import (
	"fmt"
	"strconv"
	"strings"
)

// ContainerKind discriminates drop-zone references.
type ContainerKind int

const (
	ContainerDay ContainerKind = iota
	ContainerCollection
)

// Container is a typed drop-zone reference. The UI addresses zones with
// strings ("day-3", "collection-restaurants"); those are parsed into this
// form once, at the HTTP boundary, so the reconciler's transition table
// works on structured variants.
type Container struct {
	Kind       ContainerKind
	Day        int
	Collection string
}

func (c Container) String() string {
	if c.Kind == ContainerDay {
		return fmt.Sprintf("day-%d", c.Day)
	}
	return "collection-" + c.Collection
}

// ParseContainer parses a drop-zone identifier. Accepted forms are
// "day-<index>" and "collection-<name>".
func ParseContainer(id string) (Container, error) {
	switch {
	case strings.HasPrefix(id, "day-"):
		n, err := strconv.Atoi(strings.TrimPrefix(id, "day-"))
		if err != nil || n < 0 {
			return Container{}, fmt.Errorf("invalid day container %q", id)
		}
		return Container{Kind: ContainerDay, Day: n}, nil
	case strings.HasPrefix(id, "collection-"):
		name := strings.TrimPrefix(id, "collection-")
		if name == "" {
			return Container{}, fmt.Errorf("invalid collection container %q", id)
		}
		return Container{Kind: ContainerCollection, Collection: name}, nil
	default:
		return Container{}, fmt.Errorf("unknown container %q", id)
	}
}

// DragEvent describes one drag-end gesture. Dest is nil when the drag was
// cancelled or dropped outside any valid zone.
type DragEvent struct {
	Source      Container
	SourceIndex int
	Dest        *Container
	DestIndex   int
	ItemID      string
}

// Outcome names the single action a gesture resolved to.
type Outcome string

const (
	OutcomeNone        Outcome = "none"
	OutcomeScheduled   Outcome = "scheduled"
	OutcomeReordered   Outcome = "reordered"
	OutcomeMoved       Outcome = "moved"
	OutcomeUnscheduled Outcome = "unscheduled"
)

// Reconcile maps a gesture to exactly one store action:
//
//	collection → day            schedule
//	day        → same day       reorder (no-op at same index)
//	day A      → day B          move between days
//	day        → collection     unschedule
//	anything else               no-op
//
// Cancelled drops and unchanged positions mutate nothing.
func (s *Store) Reconcile(tripID string, ev DragEvent) (Outcome, error) {
	if ev.Dest == nil {
		return OutcomeNone, nil
	}
	src, dst := ev.Source, *ev.Dest

	if src == dst && ev.SourceIndex == ev.DestIndex {
		return OutcomeNone, nil
	}

	switch {
	case src.Kind == ContainerCollection && dst.Kind == ContainerDay:
		if err := s.ScheduleItem(tripID, ev.ItemID, dst.Day, ev.DestIndex); err != nil {
			return OutcomeNone, err
		}
		return OutcomeScheduled, nil

	case src.Kind == ContainerDay && dst.Kind == ContainerDay && src.Day == dst.Day:
		if err := s.ReorderItem(tripID, src.Day, ev.SourceIndex, ev.DestIndex); err != nil {
			return OutcomeNone, err
		}
		return OutcomeReordered, nil

	case src.Kind == ContainerDay && dst.Kind == ContainerDay:
		if err := s.MoveItemBetweenDays(tripID, src.Day, dst.Day, ev.ItemID, ev.DestIndex); err != nil {
			return OutcomeNone, err
		}
		return OutcomeMoved, nil

	case src.Kind == ContainerDay && dst.Kind == ContainerCollection:
		if err := s.UnscheduleItem(tripID, ev.ItemID); err != nil {
			return OutcomeNone, err
		}
		return OutcomeUnscheduled, nil

	default:
		// collection → collection drags are not part of the builder
		// surface; ignore rather than guess.
		return OutcomeNone, nil
	}
}
