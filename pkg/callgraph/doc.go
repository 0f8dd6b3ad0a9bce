// Package callgraph loads call-graph reports and builds the in-memory
// graph the diff engine operates on: Method nodes, Invoke sites, and the
// deduplicated Edges derived from them, plus reachability, equivalence
// linking across two graphs, and pruning of edges already explained by
// the opposite graph.
package callgraph
