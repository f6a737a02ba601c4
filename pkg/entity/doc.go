// Package entity provides the nodes of a Gliffy document tree.
//
// A [Node] is either an entity, optionally carrying a [graphic.Graphic], or a
// group, which only contains other nodes. Children are kept in insertion
// order; that order decides both indexing and serialization order.
//
// Every node has at most one parent, and a node cannot be placed beneath
// itself or one of its descendants, so a document is always a forest.
//
// Ids and z-orders are assigned by the stage indexing pass, not by callers
// (see package stage). [Node.Fragment] produces the node's JSON fragment from
// the live tree each time it is called.
package entity
