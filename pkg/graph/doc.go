/*
Package graph turns a decision tree into a read-only description made of
vertices and parent-to-child edges.

Renderers consume a Graph through the Renderer interface and never touch the
domain nodes themselves. Names are not required to be unique, so every
occurrence of a node gets its own vertex ID ("n0", "n1", ... in pre-order).
*/
package graph
