package model

import "time"

// Bookmark is a single navigable site entry. The server owns the canonical
// copy; the client only ever reads these (writes go through the click API).
type Bookmark struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	CategoryID  int64     `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	ClickCount  int64     `json:"clickCount" yaml:"clickCount"`
	Weight      int       `json:"weight,omitempty" yaml:"weight,omitempty"`
	Private     bool      `json:"private,omitempty" yaml:"private,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Category groups bookmarks. Categories may nest one level via ParentID.
type Category struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
	ParentID int64  `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Weight   int    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Private  bool   `json:"private,omitempty" yaml:"private,omitempty"`
}

// User identifies the signed-in account, if any.
type User struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
}
