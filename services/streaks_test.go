// services/streaks_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConsecutiveWeeks(t *testing.T) {
	require.True(t, consecutiveWeeks(2025, 10, 2025, 11))
	require.False(t, consecutiveWeeks(2025, 10, 2025, 12))
	require.False(t, consecutiveWeeks(2025, 11, 2025, 10))

	// 2020 has 53 ISO weeks, 2021 has 52.
	require.True(t, consecutiveWeeks(2020, 53, 2021, 1))
	require.False(t, consecutiveWeeks(2020, 52, 2021, 1))
	require.True(t, consecutiveWeeks(2021, 52, 2022, 1))
	require.True(t, consecutiveWeeks(2024, 52, 2025, 1))
}

func TestLastISOWeek(t *testing.T) {
	require.Equal(t, 53, lastISOWeek(2020))
	require.Equal(t, 52, lastISOWeek(2021))
}

func TestParticipationSameWeekIsDeduped(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "weekly")

	monday := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, monday))
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, monday.AddDate(0, 0, 3)))

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentLifetimeStreak)
	require.Equal(t, 1, streak.CurrentMonthlyStreak)
	require.Equal(t, 1, streak.LongestLifetimeStreak)
}

func TestParticipationConsecutiveWeeksExtend(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "extender")

	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 7*i)))
	}

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, streak.CurrentLifetimeStreak)
	require.Equal(t, 3, streak.CurrentMonthlyStreak)
	require.Equal(t, 3, streak.LongestLifetimeStreak)
}

func TestParticipationGapResetsButKeepsLongest(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "gapped")

	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start))
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 7)))
	// Two-week silence breaks the chain.
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 28)))

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentLifetimeStreak)
	require.Equal(t, 2, streak.LongestLifetimeStreak)
}

func TestParticipationSurvivesYearBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "newyear")

	// Week 52 of 2020, week 53 of 2020, week 1 of 2021.
	dates := []time.Time{
		time.Date(2020, time.December, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2020, time.December, 28, 12, 0, 0, 0, time.UTC),
		time.Date(2021, time.January, 4, 12, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		require.NoError(t, svc.streaks.RecordParticipation(user.ID, d))
	}

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, streak.CurrentLifetimeStreak)
}

func TestWinStreakTracksOwnAnchor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "winner")

	week1 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	week3 := week2.AddDate(0, 0, 7)

	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week1, true))
	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week2, true))

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, streak.CurrentWinStreak)
	require.Equal(t, 2, streak.BestWinStreak)

	// Redelivered settlement for an already processed week is a no-op.
	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week2, false))
	streak, err = svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, streak.CurrentWinStreak)

	// A losing week zeroes the run but the best survives.
	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week3, false))
	streak, err = svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, streak.CurrentWinStreak)
	require.Equal(t, 2, streak.BestWinStreak)
}

func TestWinStreakGapRestartsAtOne(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "comeback")

	week1 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week1, true))
	require.NoError(t, svc.streaks.RecordWeekOutcome(user.ID, week1.AddDate(0, 0, 21), true))

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentWinStreak)
	require.Equal(t, 1, streak.BestWinStreak)
}

func TestResetMonthlyCounters(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "monthly")

	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start))
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 7)))

	require.NoError(t, svc.streaks.ResetMonthlyCounters())

	streak, err := svc.streaks.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, streak.CurrentMonthlyStreak)
	require.Nil(t, streak.MonthlyStreakStart)
	// Lifetime continuity is untouched by the calendar boundary.
	require.Equal(t, 2, streak.CurrentLifetimeStreak)
	require.Equal(t, 2, streak.LongestLifetimeStreak)
}

func TestStreakRecordEventsEmitted(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "notified")

	events, cancel := svc.bus.Subscribe(user.ID)
	defer cancel()

	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start))

	kinds := map[string]bool{}
	for len(events) > 0 {
		evt := <-events
		require.Equal(t, EventStreakRecord, evt.Type)
		kinds[evt.Data["kind"].(string)] = true
	}
	require.True(t, kinds[StreakKindMonthly])
	require.True(t, kinds[StreakKindLifetime])
}

func TestStreakResetIsNotARecord(t *testing.T) {
	db := newTestDB(t)
	svc := newTestServices(db)
	user := newTestUser(t, db, "broken")

	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start))
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 7)))

	events, cancel := svc.bus.Subscribe(user.ID)
	defer cancel()

	// A gap drops both counters back to 1 — below the prior marks, so no
	// record event of any kind fires.
	require.NoError(t, svc.streaks.RecordParticipation(user.ID, start.AddDate(0, 0, 28)))
	require.Len(t, events, 0)
}
