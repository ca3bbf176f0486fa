// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the calculator service, translating HTTP concerns to calculator operations.
package api
