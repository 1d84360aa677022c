// Package domain provides domain models used across the application.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is the persistence-shaped record for a collected news entry.
// Column names follow the articles table.
type Article struct {
	// Unique identifier for the article
	ID string `db:"id" json:"id"`
	// Title of the article
	Title string `db:"title" json:"title"`
	// Deck is the subtitle or standfirst, when the source provides one.
	Deck string `db:"deck" json:"deck,omitempty"`
	// Link is the canonical article URL. Unique per table.
	Link string `db:"link" json:"link"`
	// Time is the publication timestamp as printed by the source.
	Time string `db:"time" json:"time,omitempty"`
	// Author of the article
	Author string `db:"author" json:"author,omitempty"`
	// ImgURL is the lead image URL.
	ImgURL string `db:"img_url" json:"img_url,omitempty"`
	// Content is the article body text.
	Content string `db:"content" json:"content"`
	// Category label, e.g. 정치일반.
	Category string `db:"category" json:"category,omitempty"`
	// Source host the article was collected from.
	Source string `db:"source" json:"source"`
	// Record creation timestamp
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// Record update timestamp
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewArticleFromItem builds a persistable Article from an extracted item.
func NewArticleFromItem(item NewsItem) *Article {
	now := time.Now().UTC()
	return &Article{
		ID:        uuid.NewString(),
		Title:     item.Title,
		Link:      item.Link,
		Time:      item.Timestamp,
		Content:   item.Content,
		Category:  item.Category,
		Source:    item.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
