// Package widgets contains dumb render primitives shared by the pickers and the
// host app.
//
// Allowed here:
// - the colour palette, pane chrome and the popup compositor
//
// Not allowed here:
// - key handling, picker state or coordinator policy
package widgets
