// Package touch decodes raw evdev touch screen records into tap points.
//
// A [Decoder] groups input_event records into packets delimited by
// SYN_REPORT, accumulates position and press/release state across packets
// until a full tap is seen, and rotates the result into view coordinates.
// A [Debouncer] drops repeated taps that land close together in space and
// time. [Listener] combines both behind the [Source] interface consumed by
// the eink stack.
package touch
