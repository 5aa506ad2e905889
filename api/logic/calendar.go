/* calendar.go
 * Contains the slot math for the weekly availability calendar. The calendar is a grid of hourly slots from 06:00 to
 * 21:00, selecting a slot creates a one hour window that ends at the next slot (or at 23:00 for the last slot)
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"tennis-league/api/shared"
	"time"
)

const (
	firstSlotHour = 6
	lastSlotHour  = 21
	dayEnd        = "23:00"
	DateLayout    = "2006-01-02"
)

// TimeSlots returns the start times of the hourly grid
func TimeSlots() []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// TimeToMinutes converts "HH:MM" to minutes since midnight
func TimeToMinutes(t string) (int, error) {
	hours, minutes, found := strings.Cut(strings.TrimSpace(t), ":")
	if !found {
		return 0, fmt.Errorf("invalid time '%s'", t)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid time '%s'", t)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time '%s'", t)
	}
	return h*60 + m, nil
}

// IsTimeInRange reports whether t falls in [start, end). Malformed times are never in range
func IsTimeInRange(t, start, end string) bool {
	tm, err1 := TimeToMinutes(t)
	sm, err2 := TimeToMinutes(start)
	em, err3 := TimeToMinutes(end)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return tm >= sm && tm < em
}

// SlotWindow returns the one hour window created by selecting a grid slot
// Preconditions: Receives a slot start time from TimeSlots
// Postconditions: Returns the slot and the next slot boundary ("23:00" for the last slot), or an error when t is not
// on the grid
func SlotWindow(t string) (string, string, error) {
	slots := TimeSlots()
	for i, slot := range slots {
		if slot != t {
			continue
		}
		if i == len(slots)-1 {
			return slot, dayEnd, nil
		}
		return slot, slots[i+1], nil
	}
	return "", "", fmt.Errorf("'%s' is not a calendar slot", t)
}

// StartOfWeek returns midnight of the Monday of the week containing d
func StartOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	y, m, day := d.Date()
	return time.Date(y, m, day-offset, 0, 0, 0, 0, d.Location())
}

// WeekDays returns the seven days (Monday to Sunday) of the week containing d
func WeekDays(d time.Time) []time.Time {
	start := StartOfWeek(d)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// ValidStatus reports whether status can be applied to a calendar selection
func ValidStatus(status string) bool {
	switch status {
	case shared.StatusAvailable, shared.StatusMaybe, shared.StatusBusy, shared.StatusUnavailable:
		return true
	}
	return false
}

// ApplySelection applies a multi-slot selection on one day to a player's availabilities
// Preconditions: Receives the current availabilities, the date (YYYY-MM-DD), the selected slot start times, the status
// and optional notes. The status "unavailable" clears the slots
// Postconditions: Returns a new slice where any window overlapping a selected slot is removed and, unless clearing,
// a one hour window per slot is added. The result is sorted by date and start time
func ApplySelection(avails []shared.Availability, date string, slots []string, status, notes string) ([]shared.Availability, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date '%s': %w", date, err)
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid status '%s'", status)
	}

	res := make([]shared.Availability, len(avails))
	copy(res, avails)

	for _, slot := range slots {
		start, end, err := SlotWindow(slot)
		if err != nil {
			return nil, err
		}

		kept := make([]shared.Availability, 0, len(res))
		for _, av := range res {
			if av.Date == date && overlaps(av.StartTime, av.EndTime, start, end) {
				continue
			}
			kept = append(kept, av)
		}
		res = kept

		if status != shared.StatusUnavailable {
			res = append(res, shared.Availability{Date: date, StartTime: start, EndTime: end, Status: status, Notes: notes})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date < res[j].Date
		}
		a, _ := TimeToMinutes(res[i].StartTime)
		b, _ := TimeToMinutes(res[j].StartTime)
		return a < b
	})
	return res, nil
}

// SlotStatus returns the status of the window covering the slot on the date, or "" when the slot is free
func SlotStatus(avails []shared.Availability, date, t string) string {
	for _, av := range avails {
		if av.Date == date && IsTimeInRange(t, av.StartTime, av.EndTime) {
			return av.Status
		}
	}
	return ""
}

// DaySummary holds the status of every grid slot of a day
type DaySummary struct {
	Date     string   `json:"date"`
	Statuses []string `json:"statuses"`
}

// Summarize lays the availabilities out on the grid for each of the given days
func Summarize(avails []shared.Availability, days []time.Time) []DaySummary {
	slots := TimeSlots()
	res := make([]DaySummary, 0, len(days))
	for _, d := range days {
		date := d.Format(DateLayout)
		summary := DaySummary{Date: date, Statuses: make([]string, len(slots))}
		for i, slot := range slots {
			summary.Statuses[i] = SlotStatus(avails, date, slot)
		}
		res = append(res, summary)
	}
	return res
}

func overlaps(start1, end1, start2, end2 string) bool {
	s1, err1 := TimeToMinutes(start1)
	e1, err2 := TimeToMinutes(end1)
	s2, err3 := TimeToMinutes(start2)
	e2, err4 := TimeToMinutes(end2)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		// unreadable windows on the same day are replaced
		return true
	}
	return s1 < e2 && s2 < e1
}
