// Package waterfall runs an ordered sequence of asynchronous steps where
// the success values of each step become the arguments of the next.
//
// Unlike series, waterfall only accepts ordered sequences: a keyed mapping
// is rejected with *flow.InvalidArgumentError.
package waterfall
