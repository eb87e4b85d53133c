package model

import (
	"strings"
	"time"
)

type Article struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	DatePublished time.Time `json:"date_published"`
}

type ArticleChanges struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c ArticleChanges) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}
