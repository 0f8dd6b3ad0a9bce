// Package diffengine runs the relevance-propagation diff between a
// supergraph and a subgraph built by pkg/callgraph: linking equivalent
// methods, pruning already-explained edges, iterating the solver to a
// fixed point (or a cancellation/iteration bound), and emitting the
// resulting per-edge values.
package diffengine
