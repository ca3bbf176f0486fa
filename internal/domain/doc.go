// Package domain contains the core entities of the grade calculator: the subject
// and term rows users enter, the calculator sessions that hold them, and the
// results produced from them. It is independent of any storage or transport.
//
// The aggregation rules themselves live in the grading subpackage.
package domain
