package service

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// BuildActivityCalendar turns raw activity timestamps into the yearly
// contribution calendar: per-day counts from Jan 1 through today, the
// current streak and the longest streak. Day boundaries are midnight in
// now's location, so results do not depend on the time of day of either
// now or the events. Events outside now's calendar year are ignored.
func BuildActivityCalendar(events []time.Time, now time.Time) ActivityCalendar {
	today := midnightOf(now)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	counts := make(map[time.Time]int)
	total := 0
	for _, ev := range events {
		day := midnightOf(ev.In(now.Location()))
		if day.Year() != now.Year() {
			continue
		}
		counts[day]++
		total++
	}

	activeDays := make([]time.Time, 0, len(counts))
	for day := range counts {
		activeDays = append(activeDays, day)
	}
	sort.Slice(activeDays, func(i, j int) bool {
		return activeDays[i].Before(activeDays[j])
	})

	heatmap := make([]HeatmapEntry, 0, today.YearDay())
	for day := yearStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		heatmap = append(heatmap, HeatmapEntry{
			Date:  day.Format(dateLayout),
			Count: counts[day],
		})
	}

	return ActivityCalendar{
		TotalActiveDays:  len(activeDays),
		TotalSubmissions: total,
		CurrentStreak:    currentStreak(counts, today),
		MaxStreak:        maxStreak(activeDays),
		Heatmap:          heatmap,
	}
}

// currentStreak counts consecutive active days ending today, or ending
// yesterday when today has no activity yet. Two inactive days in a row
// mean the streak is over.
func currentStreak(counts map[time.Time]int, today time.Time) int {
	anchor := today
	if counts[anchor] == 0 {
		anchor = today.AddDate(0, 0, -1)
		if counts[anchor] == 0 {
			return 0
		}
	}

	streak := 0
	for day := anchor; counts[day] > 0; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// maxStreak finds the longest run of consecutive active days. No active
// days means zero, not one: the running counter only exists while there
// is a day to count.
func maxStreak(activeDays []time.Time) int {
	longest := 0
	run := 0

	for i, day := range activeDays {
		if i > 0 && activeDays[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
