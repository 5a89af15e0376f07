// Package layout resolves declarative sizes into absolute pixel rectangles.
//
// A size is a [Dim]: either a pixel count or a small expression over the
// screen size (W, H), the size of the area being divided (w, h) and the flex
// placeholder "?". [Split] divides one axis among a list of sizes, giving
// leftover space to flexible entries in proportion to their weights, and
// [Grid] applies it to rows and then to the cells of each row.
//
// All rectangles are absolute: allocation starts at the container's own
// origin. The root eink package re-exports the public types.
package layout
