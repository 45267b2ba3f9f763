// Package fingers turns hand landmarks into open/closed finger states and
// counts raised fingers across every hand in a frame.
//
// Handedness note: the thumb rule uses one fixed direction. The thumb is
// extended when its tip lies left of (smaller x than) the thumb MCP joint,
// two landmarks proximal to the tip. With a mirrored (selfie) image this is
// correct for a right hand held palm-to-camera; a left hand in the same
// pose reads inverted. No per-hand correction is applied.
//
// The other four fingers are extended when the tip is above (smaller y
// than) the PIP joint two landmarks proximal to it. Hands rotated by 90
// degrees or more are misread; that is a known limit of the rule.
package fingers
