// Package domain defines the core business entities of the riding club
// scheduler: horses, riders, instructors, lessons and enrollments, together
// with the weekday and time-of-day value types used for scheduling.
//
// Entities in this package carry their own validation rules but perform no
// I/O. Persistence is defined by the store package and implemented under
// platform; the admission rules that decide whether an enrollment may be
// created live in the rules subpackage.
package domain
