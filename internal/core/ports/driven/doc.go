// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ActionLog: Ordered history of logged workspace actions plus a cursor
//   - Clock: Source of history entry timestamps
//   - ConfigStore: Application configuration
//
// # Collaborators
//
// These are used by the loader and the driving adapters, never by the
// workspace core itself:
//
//   - ImageDecoder: Turns raw bytes into an image payload and a grayscale verdict
//   - AnnotationParser: Turns annotation file content into normalised annotations
//   - Renderer: Paints a workspace snapshot onto a drawing surface
//   - Exporter: Writes a rendered snapshot in a file format
//   - FileWatcher: Reports changes to annotation files on disk
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
