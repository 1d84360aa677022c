// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// NewsItem represents a single extracted news entry.
type NewsItem struct {
	// Title of the news entry, whitespace-trimmed.
	Title string `json:"title" mapstructure:"title"`
	// Content is the extracted body text. Text longer than the engine's
	// content limit is cut and suffixed with "..." before hashing, so the
	// stored form and the deduplication form are the same.
	Content string `json:"content" mapstructure:"content"`
	// Link is the absolute article URL, resolved against the page URL.
	Link string `json:"link" mapstructure:"link"`
	// Source is the host of the page the item was extracted from.
	Source string `json:"source" mapstructure:"source"`
	// Timestamp as printed by the source, not normalized.
	Timestamp string `json:"timestamp,omitempty" mapstructure:"timestamp"`
	// Category derived from the page URL path, empty when unmapped.
	Category string `json:"category,omitempty" mapstructure:"category"`
}

// CrawlResult aggregates the outcome of a single engine run.
type CrawlResult struct {
	// Items in completion order, not seed order.
	Items []NewsItem `json:"items"`
	// Visited counts pages fetched, successful or not.
	Visited int `json:"visited"`
	// Duplicates counts items rejected by the deduplicator.
	Duplicates int `json:"duplicates"`
	// Failed counts pages whose fetch or parse errored.
	Failed int `json:"failed"`
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}
