// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the constraint
// engine and the stores (defined in internal/store) to fulfill application
// features.
//
// Key components:
//
// 1. EnrollmentService:
//   - The only writer of enrollment records
//   - Runs the read-evaluate-write sequence under a serializable
//     transaction and retries once on write conflict
//   - Triggers availability recomputation for the affected horse
//
// 2. ScheduleService:
//   - Read-only listing projections (open lessons, available horses,
//     candidate horses and riders for a lesson)
//   - Candidate listings reuse the constraint engine's predicates so
//     they can never drift from the admission decision
//
// 3. AvailabilityCalculator:
//   - Derives a horse's availability from its rolling session count
//
// The service layer depends on domain entities and store interfaces, but
// never on specific infrastructure implementations.
package service
