package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) LocalTime {
	return LocalTime{Time: time.Date(2024, 5, 1, h, m, 0, 0, time.Local)}
}

func TestStatusFromPunches(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusNotClockedIn, StatusFromPunches(nil))
	assert.Equal(t, StatusClockedIn, StatusFromPunches([]Punch{
		{ID: 1, PunchType: PunchIn, Timestamp: at(8, 0)},
	}))
	assert.Equal(t, StatusClockedOut, StatusFromPunches([]Punch{
		{ID: 2, PunchType: PunchOut, Timestamp: at(17, 0)},
		{ID: 1, PunchType: PunchIn, Timestamp: at(8, 0)},
	}))
}

func TestSortPunchesNewestFirst(t *testing.T) {
	t.Parallel()

	punches := []Punch{
		{ID: 1, Timestamp: at(8, 0)},
		{ID: 3, Timestamp: at(12, 0)},
		{ID: 2, Timestamp: at(12, 0)},
		{ID: 4, Timestamp: at(9, 0)},
	}
	SortPunchesNewestFirst(punches)

	ids := make([]int64, 0, len(punches))
	for _, p := range punches {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{3, 2, 4, 1}, ids)
}

func TestPunchFilter_Apply(t *testing.T) {
	t.Parallel()

	punches := []Punch{
		{ID: 1, EmployeeID: 7, PunchType: PunchIn, Timestamp: at(8, 0)},
		{ID: 2, EmployeeID: 7, PunchType: PunchOut, Timestamp: at(12, 0)},
		{ID: 3, EmployeeID: 9, PunchType: PunchIn, Timestamp: at(13, 0)},
	}

	got := PunchFilter{EmployeeID: 7}.Apply(punches)
	require.Len(t, got, 2)

	got = PunchFilter{Type: PunchIn}.Apply(punches)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].ID)

	got = PunchFilter{From: at(9, 0).Time, To: at(13, 0).Time}.Apply(punches)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Len(t, PunchFilter{}.Apply(punches), 3)
}

func TestParsePunchType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PunchIn, ParsePunchType(" in "))
	assert.Equal(t, PunchOut, ParsePunchType("OUT"))
	assert.Equal(t, PunchType(""), ParsePunchType("lunch"))
}

func TestJoinPunches(t *testing.T) {
	t.Parallel()

	rows := JoinPunches(
		[]Punch{{ID: 1, EmployeeID: 7}, {ID: 2, EmployeeID: 99}},
		[]Employee{{ID: 7, FirstName: "Ada", LastName: "Lovelace", Department: "R&D"}},
	)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada Lovelace", rows[0].EmployeeName)
	assert.Equal(t, "R&D", rows[0].Department)
	assert.Equal(t, "Employee #99", rows[1].EmployeeName)
	assert.Empty(t, rows[1].Department)
}
