// Package plot implements the plotting engine: the viewport transform, the per-column curve
// sampler and the renderer that composes grid, axes and curves onto a Canvas.
//
// A render pass is synchronous and keeps no state between calls; redraw after every change to the
// equations, the viewport or the canvas size.
package plot
