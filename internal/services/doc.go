// Package services holds the read side of the heatmap: access to the result
// file produced by the processor and the health report built on it.
package services
