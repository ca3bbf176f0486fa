// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. CalculatorService:
//   - Owns the lifecycle of a calculator session and its two row lists
//   - Runs the GPA and CGPA state machines on a snapshot of the rows
//   - Emits calculation events once a transaction has committed
//
// 2. Dependency Management:
//   - Services receive dependencies through constructor injection
//   - Core dependencies include the session repository, the grading
//     service from internal/domain/grading, and an event emitter
//
// 3. Error Handling:
//   - Store and domain sentinels are returned unwrapped so the API layer
//     can map them with errors.Is
//   - Anything unexpected is wrapped in CalculatorServiceError
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
