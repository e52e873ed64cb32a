// Package engine runs a game of falling blocks.
//
// A Game owns one Session at a time: the occupancy grid, the falling figure,
// the upcoming figure queue, and the score and speed state. Every move is
// checked against the grid before anything is sent to the render.Renderer,
// so the renderer only ever mirrors accepted state.
//
// A Game is not safe for concurrent use. Hosts either call Tick once per
// frame from their own event loop, or hand control to Run, which ticks on a
// Clock and calls Renderer.PumpEvents between frames so the host can deliver
// input.
package engine
