// Package domain defines the core entities of the annotation workspace.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Annotation: A bounding box or polygon in unit coordinates
//   - AnnotationFile: A named, coloured group of annotations from one source file
//   - ImagePayload: A decoded base image or mask surface
//   - Action / HistoryEntry: One logged, undo-worthy mutation
//   - WorkspaceState: The materialised state projected from the action log
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
