// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/models"
)

// canModify reports whether claims may edit or delete content owned by ownerID.
// Admins moderate everything.
func canModify(claims *auth.Claims, ownerID int64) bool {
	return claims.UserID == ownerID || claims.Role == models.RoleAdmin
}

// Articles lists articles, newest first.
func (h *Handler) Articles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	articles, err := h.db.ListArticles(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(articles)
}

// Article returns one article with its comments.
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return
	}
	detail, err := h.db.GetArticleDetail(r.Context(), id)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(detail)
}

// CreateArticle posts an article as the caller.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	var req models.ArticleRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	article := &models.Article{UserID: claims.UserID, Title: req.Title, Content: req.Content}
	if err := h.db.CreateArticle(r.Context(), article); err != nil {
		rw.Fail(err)
		return
	}
	created, err := h.db.GetArticle(r.Context(), article.ID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(created)
}

// ownedArticle loads the {id} article and checks the caller may change it.
func (h *Handler) ownedArticle(rw *ResponseWriter, r *http.Request) (*models.Article, *auth.Claims, bool) {
	claims, ok := currentClaims(rw, r)
	if !ok {
		return nil, nil, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return nil, nil, false
	}
	article, err := h.db.GetArticle(r.Context(), id)
	if err != nil {
		rw.Fail(err)
		return nil, nil, false
	}
	if !canModify(claims, article.UserID) {
		rw.Forbidden(msgForbidden)
		return nil, nil, false
	}
	return article, claims, true
}

// UpdateArticle replaces title and content. Author only.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	article, _, ok := h.ownedArticle(rw, r)
	if !ok {
		return
	}
	var req models.ArticleRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if err := h.db.UpdateArticle(r.Context(), article.ID, req.Title, req.Content); err != nil {
		rw.Fail(err)
		return
	}
	article.Title, article.Content = req.Title, req.Content
	rw.Success(article)
}

// DeleteArticle removes an article and its comments. Author only.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	article, _, ok := h.ownedArticle(rw, r)
	if !ok {
		return
	}
	if err := h.db.DeleteArticle(r.Context(), article.ID); err != nil {
		rw.Fail(err)
		return
	}
	rw.NoContent()
}

// CreateComment adds a comment to the {id} article.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims, ok := currentClaims(rw, r)
	if !ok {
		return
	}
	articleID, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return
	}
	var req models.CommentRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	comment := &models.Comment{ArticleID: articleID, UserID: claims.UserID, Content: req.Content}
	if err := h.db.CreateComment(r.Context(), comment); err != nil {
		rw.Fail(err)
		return
	}
	created, err := h.db.GetComment(r.Context(), comment.ID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(created)
}

func (h *Handler) ownedComment(rw *ResponseWriter, r *http.Request) (*models.Comment, bool) {
	claims, ok := currentClaims(rw, r)
	if !ok {
		return nil, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		rw.NotFound(msgNotFound)
		return nil, false
	}
	comment, err := h.db.GetComment(r.Context(), id)
	if err != nil {
		rw.Fail(err)
		return nil, false
	}
	if !canModify(claims, comment.UserID) {
		rw.Forbidden(msgForbidden)
		return nil, false
	}
	return comment, true
}

// UpdateComment replaces a comment's content. Author only.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	comment, ok := h.ownedComment(rw, r)
	if !ok {
		return
	}
	var req models.CommentRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}
	if err := h.db.UpdateComment(r.Context(), comment.ID, req.Content); err != nil {
		rw.Fail(err)
		return
	}
	comment.Content = req.Content
	rw.Success(comment)
}

// DeleteComment removes a comment. Author only.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	comment, ok := h.ownedComment(rw, r)
	if !ok {
		return
	}
	if err := h.db.DeleteComment(r.Context(), comment.ID); err != nil {
		rw.Fail(err)
		return
	}
	rw.NoContent()
}
