// Package gui is an incremental flexbox layout engine.
//
// Callers build a tree of elements with AddElement, change it with
// SetStyle, Reparent and RemoveElement, and call ComputeLayout once per
// frame. Only elements marked dirty since the previous pass are visited, in
// tree order, so a parent's rect is final before its children are placed.
// Resolutions are cached per element and reused while the element's
// available size and style are unchanged.
//
// Users import this single package for the public API: the Engine, its
// configuration, and the layout types re-exported from internal/layout.
package gui
