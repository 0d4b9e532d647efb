package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainer(t *testing.T) {
	tests := []struct {
		id      string
		want    Container
		wantErr bool
	}{
		{id: "day-0", want: Container{Kind: ContainerDay, Day: 0}},
		{id: "day-3", want: Container{Kind: ContainerDay, Day: 3}},
		{id: "collection-restaurants", want: Container{Kind: ContainerCollection, Collection: "restaurants"}},
		{id: "collection-my-custom-list", want: Container{Kind: ContainerCollection, Collection: "my-custom-list"}},
		{id: "day-", wantErr: true},
		{id: "day--1", wantErr: true},
		{id: "collection-", wantErr: true},
		{id: "panel-3", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseContainer(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContainerString_RoundTrip(t *testing.T) {
	for _, id := range []string{"day-7", "collection-restaurants"} {
		c, err := ParseContainer(id)
		require.NoError(t, err)
		assert.Equal(t, id, c.String())
	}
}

func TestReconcile_TransitionTable(t *testing.T) {
	day := func(n int) Container { return Container{Kind: ContainerDay, Day: n} }
	coll := func(name string) Container { return Container{Kind: ContainerCollection, Collection: name} }

	t.Run("collection to day schedules", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		it, err := s.SaveItem(tr.ID, CollectionExperiences, Item{Name: "x", Category: CategoryExperience})
		require.NoError(t, err)

		dest := day(1)
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: coll(CollectionExperiences), SourceIndex: 0,
			Dest: &dest, DestIndex: 0,
			ItemID: it.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeScheduled, outcome)

		fresh, _ := s.Trip(tr.ID)
		require.Len(t, fresh.DayItems(1), 1)
	})

	t.Run("same day reorders", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		a := saveScheduled(t, s, tr.ID, CollectionExperiences, "a", 0, 0)
		saveScheduled(t, s, tr.ID, CollectionExperiences, "b", 0, 1)

		dest := day(0)
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: day(0), SourceIndex: 0,
			Dest: &dest, DestIndex: 1,
			ItemID: a.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeReordered, outcome)

		fresh, _ := s.Trip(tr.ID)
		assert.Equal(t, []string{"b", "a"}, dayNames(fresh, 0))
	})

	t.Run("day to other day moves", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		a := saveScheduled(t, s, tr.ID, CollectionExperiences, "a", 0, 0)

		dest := day(2)
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: day(0), SourceIndex: 0,
			Dest: &dest, DestIndex: 0,
			ItemID: a.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeMoved, outcome)

		fresh, _ := s.Trip(tr.ID)
		assert.Empty(t, fresh.DayItems(0))
		assert.Len(t, fresh.DayItems(2), 1)
	})

	t.Run("day to collection unschedules", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		a := saveScheduled(t, s, tr.ID, CollectionExperiences, "a", 1, 0)

		dest := coll(CollectionExperiences)
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: day(1), SourceIndex: 0,
			Dest: &dest, DestIndex: 0,
			ItemID: a.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnscheduled, outcome)

		fresh, _ := s.Trip(tr.ID)
		assert.Empty(t, fresh.DayItems(1))
		assert.Len(t, fresh.UnscheduledItems(CollectionExperiences), 1)
	})

	t.Run("collection to collection is a no-op", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		it, err := s.SaveItem(tr.ID, CollectionExperiences, Item{Name: "x", Category: CategoryExperience})
		require.NoError(t, err)
		before := s.JournalLen()

		dest := coll(CollectionRestaurants)
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: coll(CollectionExperiences), SourceIndex: 0,
			Dest: &dest, DestIndex: 0,
			ItemID: it.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, outcome)
		assert.Equal(t, before, s.JournalLen())
	})
}

func TestReconcile_Guards(t *testing.T) {
	t.Run("cancelled drop mutates nothing", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		a := saveScheduled(t, s, tr.ID, CollectionExperiences, "a", 0, 0)
		before := s.JournalLen()

		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: Container{Kind: ContainerDay, Day: 0}, SourceIndex: 0,
			Dest:   nil,
			ItemID: a.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, outcome)
		assert.Equal(t, before, s.JournalLen())
	})

	t.Run("same container same index mutates nothing", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(2))
		a := saveScheduled(t, s, tr.ID, CollectionExperiences, "a", 0, 0)
		saveScheduled(t, s, tr.ID, CollectionExperiences, "b", 0, 1)
		before, _ := s.Trip(tr.ID)
		journalBefore := s.JournalLen()

		dest := Container{Kind: ContainerDay, Day: 0}
		outcome, err := s.Reconcile(tr.ID, DragEvent{
			Source: dest, SourceIndex: 0,
			Dest: &dest, DestIndex: 0,
			ItemID: a.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, outcome)
		assert.Equal(t, journalBefore, s.JournalLen())

		after, _ := s.Trip(tr.ID)
		assert.Equal(t, dayNames(before, 0), dayNames(after, 0))
	})

	t.Run("schedule to out-of-range day surfaces the error", func(t *testing.T) {
		s, tr := buildTrip(t, tokyo(1)) // days 0..1
		it, err := s.SaveItem(tr.ID, CollectionExperiences, Item{Name: "x", Category: CategoryExperience})
		require.NoError(t, err)

		dest := Container{Kind: ContainerDay, Day: 5}
		_, err = s.Reconcile(tr.ID, DragEvent{
			Source: Container{Kind: ContainerCollection, Collection: CollectionExperiences},
			Dest:   &dest,
			ItemID: it.ID,
		})
		assert.ErrorIs(t, err, ErrDayOutOfRange)
	})
}
