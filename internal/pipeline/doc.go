// Package pipeline provides the pull-based, memoizing dataflow core that
// every force-platform filter is built on.
//
// A Process owns input and output slots holding Data values. Calling
// Update on a process (or on any output whose source is that process)
// first updates every non-nil input, then runs the process's
// GenerateData step only when an input, an input's producer, or the
// process's own parameters carry a timestamp at least as recent as the
// last computation. Outputs are stamped after each computation.
//
// Data values embed DataObject, which carries the modification
// timestamp, a non-owning pointer to the producing process, and a list
// of non-owning parent references. Modified notifies each parent so a
// container (a Collection, a configuration node) is stamped whenever one
// of its members changes.
//
// Evaluation is synchronous and single-threaded. The only guarantee is
// that outputs are fresh relative to their inputs at the moment Update
// returns.
package pipeline
