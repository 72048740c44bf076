// Package series runs independent zero-input tasks strictly one after
// another and collects their results in a container shaped like the input:
// a slice for a slice of tasks, an ordered mapping for an ordered mapping.
//
// The first failure stops the run; the callback then receives the error and
// the results of the tasks completed so far. Keyed runs follow insertion
// order of the github.com/wk8/go-ordered-map mapping.
package series
