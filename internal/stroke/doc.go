// Package stroke owns the point model and the per-gesture sample buffer.
//
// A Stroke is the ordered sequence of world-space points captured between
// pointer-down and pointer-up. Points are appended in time order only; the
// buffer never reorders or deduplicates samples.
package stroke
