package models

// Folder groups files into a tree. ParentID "" means the library root.
// Parent assignment is validated on move so the tree stays acyclic.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}
