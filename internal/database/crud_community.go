// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/finpick/internal/models"
)

const articleSelect = `SELECT a.id, a.user_id, COALESCE(u.nickname, ''), a.title, a.content,
		(SELECT COUNT(*) FROM comments c WHERE c.article_id = a.id), a.created_at
	FROM articles a LEFT JOIN users u ON u.id = a.user_id`

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	if err := row.Scan(&a.ID, &a.UserID, &a.Author, &a.Title, &a.Content, &a.CommentCount, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArticles returns all articles, newest first.
func (db *DB) ListArticles(ctx context.Context) ([]models.Article, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, articleSelect+` ORDER BY a.created_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// GetArticle returns one article without comments.
func (db *DB) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	a, err := scanArticle(db.conn.QueryRowContext(ctx, articleSelect+` WHERE a.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	return a, nil
}

// GetArticleDetail returns an article with its comments, oldest comment first.
func (db *DB) GetArticleDetail(ctx context.Context, id int64) (*models.ArticleDetail, error) {
	a, err := db.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, commentSelect+` WHERE c.article_id = ? ORDER BY c.created_at, c.id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	detail := &models.ArticleDetail{Article: *a, Comments: make([]models.Comment, 0)}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		detail.Comments = append(detail.Comments, *c)
	}
	return detail, rows.Err()
}

// CreateArticle inserts an article.
func (db *DB) CreateArticle(ctx context.Context, a *models.Article) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx, `INSERT INTO articles (user_id, title, content) VALUES (?, ?, ?) RETURNING id, created_at`,
		a.UserID, a.Title, a.Content).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// UpdateArticle replaces title and content.
func (db *DB) UpdateArticle(ctx context.Context, id int64, title, content string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE articles SET title = ?, content = ? WHERE id = ?`, title, content, id)
	if err != nil {
		return fmt.Errorf("failed to update article %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteArticle removes an article and its comments in one transaction.
func (db *DB) DeleteArticle(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE article_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete comments of article %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete article %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

const commentSelect = `SELECT c.id, c.article_id, c.user_id, COALESCE(u.nickname, ''), c.content, c.created_at
	FROM comments c LEFT JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment adds a comment to an existing article.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	if _, err := db.GetArticle(ctx, c.ArticleID); err != nil {
		return err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx, `INSERT INTO comments (article_id, user_id, content) VALUES (?, ?, ?) RETURNING id, created_at`,
		c.ArticleID, c.UserID, c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment returns one comment.
func (db *DB) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	c, err := scanComment(db.conn.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return c, nil
}

// UpdateComment replaces the comment body.
func (db *DB) UpdateComment(ctx context.Context, id int64, content string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteComment removes one comment.
func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return nil
}
