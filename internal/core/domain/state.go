package domain

// WorkspaceState is the materialised workspace.
// It is fully derivable from the action log and cursor; the workspace
// service keeps a live copy for responsiveness.
type WorkspaceState struct {
	Image     *ImagePayload
	ImageName string
	Mask      *ImagePayload

	// Files is ordered by insertion.
	Files []AnnotationFile

	// ClassColors maps class labels to CSS-style colour strings.
	ClassColors map[string]string

	Draw    DrawSettings
	Display DisplaySettings
}

// NewWorkspaceState returns the canonical empty state with the given settings.
func NewWorkspaceState(settings Settings) WorkspaceState {
	return WorkspaceState{
		Files:       []AnnotationFile{},
		ClassColors: make(map[string]string),
		Draw:        settings.Draw,
		Display:     settings.Display,
	}
}

// Clone returns a copy sharing no slices or maps with s.
// Image payloads are immutable and are shared.
func (s WorkspaceState) Clone() WorkspaceState {
	c := s
	c.Files = make([]AnnotationFile, len(s.Files))
	for i := range s.Files {
		c.Files[i] = s.Files[i].Clone()
	}
	c.ClassColors = make(map[string]string, len(s.ClassColors))
	for k, v := range s.ClassColors {
		c.ClassColors[k] = v
	}
	return c
}

// Settings returns the draw and display settings of the state.
func (s WorkspaceState) Settings() Settings {
	return Settings{Draw: s.Draw, Display: s.Display}
}

// FileIndex returns the index of the first file with the given name, or -1.
func (s WorkspaceState) FileIndex(name string) int {
	for i := range s.Files {
		if s.Files[i].Name == name {
			return i
		}
	}
	return -1
}

// File returns a copy of the first file with the given name.
func (s WorkspaceState) File(name string) (AnnotationFile, bool) {
	if i := s.FileIndex(name); i >= 0 {
		return s.Files[i].Clone(), true
	}
	return AnnotationFile{}, false
}

// HasImage reports whether a base image is loaded.
func (s WorkspaceState) HasImage() bool {
	return s.Image != nil
}

// AnnotationCount returns the total number of annotations across files.
func (s WorkspaceState) AnnotationCount() int {
	n := 0
	for i := range s.Files {
		n += len(s.Files[i].Annotations)
	}
	return n
}
