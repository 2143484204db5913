package engine

// ActionID identifies an action for policy matching.
type ActionID string

const (
	ActionDelete          ActionID = "delete"
	ActionUpload          ActionID = "upload"
	ActionCreateDirectory ActionID = "create_directory"
	ActionCopyPath        ActionID = "copy_path"
)

// Action is a caller-supplied contextual action. Label and Key are presentation only;
// the explorer never inspects them except to find an action by key.
type Action struct {
	ID      ActionID
	Label   string
	Key     string
	OnClick func(path string)
}

// RowContext carries what the filter policy needs to know about a row.
type RowContext struct {
	IsDirectory bool
	Depth       int
}

// FilterActions applies the root-directory delete protection: a depth-0 directory loses its
// delete action when root directories are not deletable. Every other row keeps the list
// as given, in order.
func FilterActions(actions []Action, row RowContext, rootDirectoriesAreDeletable bool) []Action {
	if !row.IsDirectory || row.Depth != 0 || rootDirectoriesAreDeletable {
		return actions
	}

	filtered := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.ID == ActionDelete {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
