// Package template defines the template engine seam used by the HTML
// renderer. Implementations live in sub-packages.
package template
