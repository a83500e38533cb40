// Package knob implements the parameter model for Lumen.
// A knob is a typed, multi-dimensional, possibly animatable value that
// backs a single adjustable control of a compositing node. Knobs are
// owned by a Holder (one per node), notify listeners on change, and
// contribute hash words used to decide when a node's output must be
// recomputed.
package knob
