// Package schedule_tools provides MCP tools built on the scheduling engine.
//
// These tools turn a Google Calendar into answers an assistant can act on:
// where the free time is, which slot to use for a task, whether the day is
// overbooked, and how loaded it is.
//
// # Available Tools
//
//   - schedule_free_slots: List free slots within working hours for a day
//   - schedule_find_optimal_slot: Find the earliest usable slot of a given
//     duration, rolling over to later days when today is full
//   - schedule_suggest_slots: One candidate slot per day over several days
//   - schedule_detect_conflicts: Detect overlapping events (double bookings)
//   - schedule_day_load: Busy intervals, free slots, conflicts, and
//     workload classification for one day
//
// Blocking a chosen slot as a calendar event is calendar_block_slot in the
// calendar tools.
//
// Working hours and minimum slot length come from the server's schedule
// configuration. All tools support an optional 'account' parameter for
// multi-account use.
package schedule_tools
