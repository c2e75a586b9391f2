// Package services implements the driving port interfaces.
// Services hold the workspace logic: the live state, history replay,
// file loading and persisted settings. They reach the outside world
// only through driven ports.
package services
