// Package grading implements the grade-aggregation engine: resolving letter
// grades to quality scores, validating row lists, computing credit-weighted
// averages and presenting them.
//
// Everything here is pure. Nothing is mutated, and the same input always
// produces the same output.
package grading
