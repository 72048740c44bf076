// Package compose chains single-value asynchronous units.
//
// Compose(f, g, h) runs h, then g, then f, feeding each unit's first success
// value to the next one; Seq(h, g, f) runs them in argument order. The first
// failure stops the chain and is handed to the composed unit's continuation.
//
// The context given to a composed unit reaches every underlying unit
// unchanged, so units can share caller state through it.
package compose
