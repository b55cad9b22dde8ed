// Package score computes the composite wellness score and status badge
// from the four daily health metrics. Compute is pure and side-effect free;
// it is recomputed on every metrics change rather than cached.
package score
