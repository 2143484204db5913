package engine

import "testing"

func actionIDs(actions []Action) []ActionID {
	ids := make([]ActionID, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}

func sameIDs(a, b []ActionID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterActions(t *testing.T) {
	dirActions := []Action{
		{ID: ActionCreateDirectory},
		{ID: ActionDelete},
		{ID: ActionUpload},
	}

	tests := []struct {
		name      string
		row       RowContext
		deletable bool
		want      []ActionID
	}{
		{"root dir protected", RowContext{IsDirectory: true, Depth: 0}, false, []ActionID{ActionCreateDirectory, ActionUpload}},
		{"root dir deletable", RowContext{IsDirectory: true, Depth: 0}, true, []ActionID{ActionCreateDirectory, ActionDelete, ActionUpload}},
		{"nested dir protected flag", RowContext{IsDirectory: true, Depth: 1}, false, []ActionID{ActionCreateDirectory, ActionDelete, ActionUpload}},
		{"deep dir", RowContext{IsDirectory: true, Depth: 4}, false, []ActionID{ActionCreateDirectory, ActionDelete, ActionUpload}},
		{"root file", RowContext{IsDirectory: false, Depth: 0}, false, []ActionID{ActionCreateDirectory, ActionDelete, ActionUpload}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := actionIDs(FilterActions(dirActions, tt.row, tt.deletable))
			if !sameIDs(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterActions_DoesNotModifyInput(t *testing.T) {
	in := []Action{{ID: ActionDelete}, {ID: ActionUpload}, {ID: ActionDelete}}
	out := FilterActions(in, RowContext{IsDirectory: true}, false)

	if len(out) != 1 || out[0].ID != ActionUpload {
		t.Errorf("Expected only upload to remain, got %v", actionIDs(out))
	}
	if len(in) != 3 || in[0].ID != ActionDelete || in[2].ID != ActionDelete {
		t.Errorf("Expected input to be untouched, got %v", actionIDs(in))
	}
}

func TestFilterActions_Empty(t *testing.T) {
	if got := FilterActions(nil, RowContext{IsDirectory: true}, false); len(got) != 0 {
		t.Errorf("Expected no actions, got %v", actionIDs(got))
	}
}
