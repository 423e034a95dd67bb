// Package schedule implements the calendar slot-finding engine: computing
// free time windows from busy calendar intervals, detecting scheduling
// conflicts, selecting an optimal slot for a follow-up action, and
// summarizing daily meeting load.
//
// All functions in this package are pure computations over already-fetched
// data. They perform no I/O, hold no shared state, and are safe to call
// concurrently. Callers are responsible for resolving any race between
// reading the calendar and computing a slot; the engine only guarantees
// at-most-one-slot-per-call.
//
// Day and window boundaries use the local clock of the supplied times.
// There is no timezone modeling: a window computed for a date carries that
// date's location through all arithmetic.
package schedule
