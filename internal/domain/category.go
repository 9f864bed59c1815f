package domain

// Category classifies transactions. Categories form a two-level tree: root
// categories have an empty ParentID, children reference a root. A child's
// type must match its parent's type.
type Category struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	ParentID    string          `json:"parentId,omitempty"`
	Description string          `json:"description,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool { return c.ParentID == "" }
