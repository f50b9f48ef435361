// Package graph maintains the per-track prerequisite graph.
//
// Nodes are mission IDs; an edge from -> to means from must be completed
// before to. The graph keeps a transitive-closure bitset per node, so
// reachability checks are constant time and every insertion that would close
// a cycle is rejected before it is applied. The graph is acyclic after every
// successful AddEdge.
package graph
