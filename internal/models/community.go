// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package models

import "time"

// Article is a community post.
type Article struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Author       string    `json:"author"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ArticleDetail is an article together with its comments, oldest first.
type ArticleDetail struct {
	Article
	Comments []Comment `json:"comments"`
}

// Comment belongs to an article and is removed with it.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleRequest is the body for creating or updating an article.
type ArticleRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=20000"`
}

// CommentRequest is the body for creating a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
