package cache

// PathEntry is the cached value of one collection path.
type PathEntry struct {
	PathID int64  `json:"path_id"`
	Path   string `json:"path"`
}

// NewPathEntry creates the entry for pathID.
func NewPathEntry(pathID int64, path string) *PathEntry {
	return &PathEntry{
		PathID: pathID,
		Path:   path,
	}
}
