package ui

import "github.com/jesspatton/lazyfs/engine"

type requestKind int

const (
	requestCreateDirectory requestKind = iota
	requestUpload
	requestDelete
	requestCopyPath
	requestOpen
)

// request is an action click waiting for the model to act on it.
type request struct {
	kind requestKind
	path string
}

// dispatcher collects action clicks. Explorer callbacks run inside Update, so they only
// queue; the model drains the queue before returning.
type dispatcher struct {
	pending []request
}

func (d *dispatcher) push(kind requestKind) func(path string) {
	return func(path string) {
		d.pending = append(d.pending, request{kind: kind, path: path})
	}
}

func (d *dispatcher) drain() []request {
	reqs := d.pending
	d.pending = nil
	return reqs
}

// actionOptions builds the action lists shown in the explorer, keeping the delete policy.
func actionOptions(d *dispatcher, keys KeyMap, rootDirectoriesAreDeletable bool) engine.Options {
	return engine.Options{
		DirectoryActions: []engine.Action{
			{ID: engine.ActionCreateDirectory, Label: "new dir", Key: firstKey(keys.NewDir), OnClick: d.push(requestCreateDirectory)},
			{ID: engine.ActionUpload, Label: "upload", Key: firstKey(keys.Upload), OnClick: d.push(requestUpload)},
			{ID: engine.ActionDelete, Label: "delete", Key: firstKey(keys.Delete), OnClick: d.push(requestDelete)},
		},
		FileActions: []engine.Action{
			{ID: engine.ActionCopyPath, Label: "copy path", Key: firstKey(keys.CopyPath), OnClick: d.push(requestCopyPath)},
			{ID: engine.ActionDelete, Label: "delete", Key: firstKey(keys.Delete), OnClick: d.push(requestDelete)},
		},
		RootDirectoriesAreDeletable: rootDirectoriesAreDeletable,
	}
}
