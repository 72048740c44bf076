// Package flow holds the contract shared by the compose, series and
// waterfall orchestrators.
//
// A task unit is handed a *Continuation[T] and must settle it exactly once,
// either with success values (Return) or with an error (Fail). The outcome
// travels as a Result[T].
//
// Errors raised by the orchestrators themselves are *InvalidArgumentError
// (bad input to an entry point) and *ConfigurationError (a combinator that
// cannot be built). Errors reported by task units are forwarded untouched.
package flow
