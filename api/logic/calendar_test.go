/* calendar_test.go
 * Contains unit tests for calendar.go
 * Authors: Zachary Bower
 */

package logic

import (
	"tennis-league/api/shared"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region slot tests

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()

	require.Len(t, slots, 16)
	assert.Equal(t, "06:00", slots[0])
	assert.Equal(t, "21:00", slots[len(slots)-1])
}

func TestTimeToMinutes(t *testing.T) {
	m, err := TimeToMinutes("06:30")
	require.NoError(t, err)
	assert.Equal(t, 390, m)

	for _, bad := range []string{"", "0630", "ab:00", "10:75"} {
		_, err := TimeToMinutes(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsTimeInRange(t *testing.T) {
	assert.True(t, IsTimeInRange("06:00", "06:00", "08:00"))
	assert.True(t, IsTimeInRange("07:00", "06:00", "08:00"))
	assert.False(t, IsTimeInRange("08:00", "06:00", "08:00"), "end is exclusive")
	assert.False(t, IsTimeInRange("05:00", "06:00", "08:00"))
	assert.False(t, IsTimeInRange("bad", "06:00", "08:00"))
}

func TestSlotWindow(t *testing.T) {
	start, end, err := SlotWindow("10:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00", start)
	assert.Equal(t, "11:00", end)

	_, end, err = SlotWindow("21:00")
	require.NoError(t, err)
	assert.Equal(t, "23:00", end)

	_, _, err = SlotWindow("10:30")
	assert.Error(t, err)
}

// endregion

// region week tests

func TestStartOfWeek(t *testing.T) {
	// Sunday belongs to the week that started on the previous Monday
	sunday := time.Date(2025, 3, 16, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(monday))
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC))

	require.Len(t, days, 7)
	assert.Equal(t, time.Monday, days[0].Weekday())
	assert.Equal(t, "2025-03-02", days[6].Format(DateLayout))
}

// endregion

// region ApplySelection tests

func TestApplySelection_AddsOneHourWindows(t *testing.T) {
	avails, err := ApplySelection(nil, "2025-03-10", []string{"19:00", "21:00"}, shared.StatusAvailable, "")

	require.NoError(t, err)
	require.Len(t, avails, 2)
	assert.Equal(t, shared.Availability{Date: "2025-03-10", StartTime: "19:00", EndTime: "20:00", Status: "available"}, avails[0])
	assert.Equal(t, "23:00", avails[1].EndTime)
}

func TestApplySelection_ReplacesOverlappingWindow(t *testing.T) {
	existing := []shared.Availability{
		{Date: "2025-03-10", StartTime: "08:00", EndTime: "11:00", Status: shared.StatusBusy},
		{Date: "2025-03-11", StartTime: "09:00", EndTime: "10:00", Status: shared.StatusBusy},
	}

	avails, err := ApplySelection(existing, "2025-03-10", []string{"09:00"}, shared.StatusMaybe, "after work")

	require.NoError(t, err)
	require.Len(t, avails, 2)
	assert.Equal(t, "2025-03-10", avails[0].Date)
	assert.Equal(t, shared.StatusMaybe, avails[0].Status)
	assert.Equal(t, "after work", avails[0].Notes)
	assert.Equal(t, "2025-03-11", avails[1].Date)
	assert.Len(t, existing, 2, "input must not be modified")
	assert.Equal(t, shared.StatusBusy, existing[0].Status)
}

func TestApplySelection_UnavailableClears(t *testing.T) {
	existing := []shared.Availability{{Date: "2025-03-10", StartTime: "09:00", EndTime: "10:00", Status: shared.StatusAvailable}}

	avails, err := ApplySelection(existing, "2025-03-10", []string{"09:00"}, shared.StatusUnavailable, "")

	require.NoError(t, err)
	assert.Empty(t, avails)
}

func TestApplySelection_Errors(t *testing.T) {
	_, err := ApplySelection(nil, "10/03/2025", []string{"09:00"}, shared.StatusAvailable, "")
	assert.Error(t, err)

	_, err = ApplySelection(nil, "2025-03-10", []string{"09:00"}, "sometimes", "")
	assert.Error(t, err)

	_, err = ApplySelection(nil, "2025-03-10", []string{"05:00"}, shared.StatusAvailable, "")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	avails := []shared.Availability{{Date: "2025-03-10", StartTime: "06:00", EndTime: "08:00", Status: shared.StatusBusy}}

	summary := Summarize(avails, WeekDays(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))

	require.Len(t, summary, 7)
	assert.Equal(t, "2025-03-10", summary[0].Date)
	assert.Equal(t, shared.StatusBusy, summary[0].Statuses[0])
	assert.Equal(t, shared.StatusBusy, summary[0].Statuses[1])
	assert.Equal(t, "", summary[0].Statuses[2])
	assert.Equal(t, "", SlotStatus(avails, "2025-03-11", "06:00"))
}

// endregion
