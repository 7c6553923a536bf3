// Package models defines the domain types for blogdex.
package models

// Post is the index entry for one article.
type Post struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Date  string   `json:"date"`
	Tags  []string `json:"tags"`
}

// Manifest is the on-disk index of a language directory.
type Manifest struct {
	Posts []Post `json:"posts"`
}
