// Package template defines the renderer-agnostic template seam used to
// produce page markup before component binding.
package template
