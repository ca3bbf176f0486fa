// Package task runs periodic background jobs, such as removing abandoned
// calculator sessions, outside the HTTP request path. Jobs stop when the
// runner is stopped and never overlap with themselves.
package task
