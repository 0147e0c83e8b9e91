// Package render draws a running sort as vertical bars in the terminal.
//
// A Renderer is both the engine's Observer and the host loop around it. The
// host loop waits for keys and starts sorts through an engine.Controller; the
// Observe method draws one frame per step and polls, without blocking, for a
// quit key. A quit key during a sort makes Observe return engine.ErrStop, which
// aborts the sort.
//
// Terminal events are read by a single pump goroutine started by Start and
// stopped by Close.
package render
