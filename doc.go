// Package eink is a retained-mode compositing UI toolkit for grayscale
// e-ink panels.
//
// Applications build a tree of elements (rectangles, buttons, pictures,
// layouts of rows and cells), add the top-level ones to a [Stack], and run
// the stack's loop. The stack composites cached element bitmaps into the
// frame, pushes changed regions to a [Device], and routes taps from a touch
// source back to the element that was hit.
//
// All element mutation happens on the goroutine running [Stack.Run].
// Other goroutines hand work to it with [Stack.Post].
package eink
