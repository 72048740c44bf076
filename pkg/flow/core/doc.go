// Package core contains the plumbing shared by the orchestrators: the
// locomotive that launches one unit at a time and resumes on settlement,
// options carried on the context, and lifecycle hooks. It defines no
// orchestration semantics itself; compose, series and waterfall build on it.
package core
