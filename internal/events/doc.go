// Package events provides the calculation event types and a synchronous,
// in-process fan-out for them.
//
// The calculator service emits an event whenever a calculation completes, is
// rejected, or a calculator is reset. Handlers registered on the emitter,
// such as LoggingHandler, react without the service knowing about them.
package events
