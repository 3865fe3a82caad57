package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type CommentHandler struct {
	session        *services.Session
	inlinePageSize int
	detailPageSize int
}

// NewCommentHandler pages with detailPageSize unless the request asks for
// the compact ?view=inline listing.
func NewCommentHandler(session *services.Session, inlinePageSize, detailPageSize int) *CommentHandler {
	if inlinePageSize < 1 {
		inlinePageSize = 3
	}
	if detailPageSize < 1 {
		detailPageSize = 10
	}
	return &CommentHandler{
		session:        session,
		inlinePageSize: inlinePageSize,
		detailPageSize: detailPageSize,
	}
}

func (h *CommentHandler) tree(w http.ResponseWriter, r *http.Request) (*services.CommentTree, bool) {
	tree, err := h.session.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return tree, true
}

type commentListResponse struct {
	Results any  `json:"results"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

func (h *CommentHandler) respond(w http.ResponseWriter, tree *services.CommentTree) {
	writeJSON(w, http.StatusOK, commentListResponse{
		Results: tree.Comments(),
		Count:   tree.Count(),
		HasMore: tree.HasMore(),
	})
}

func (h *CommentHandler) pageSize(r *http.Request) int {
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && size > 0 {
		return size
	}
	if r.URL.Query().Get("view") == "inline" {
		return h.inlinePageSize
	}
	return h.detailPageSize
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	tree, ok := h.tree(w, r)
	if !ok {
		return
	}
	if err := tree.FetchPage(r.Context(), page, h.pageSize(r)); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, tree)
}

func (h *CommentHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.tree(w, r)
	if !ok {
		return
	}
	if err := tree.LoadMore(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, tree)
}

type addCommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parent_id"`
}

func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	postID := chi.URLParam(r, "id")
	if err := h.session.AddComment(r.Context(), postID, req.Text, req.ParentID, h.pageSize(r)); err != nil {
		writeError(w, err)
		return
	}

	tree, err := h.session.Comments(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentListResponse{
		Results: tree.Comments(),
		Count:   tree.Count(),
		HasMore: tree.HasMore(),
	})
}

func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	tree, ok := h.tree(w, r)
	if !ok {
		return
	}
	commentID := chi.URLParam(r, "commentID")
	if _, err := tree.ToggleLike(r.Context(), commentID); err != nil {
		writeError(w, err)
		return
	}
	comment, _ := tree.Find(commentID)
	writeJSON(w, http.StatusOK, comment)
}

type editCommentRequest struct {
	Text string `json:"text"`
}

func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	var req editCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tree, ok := h.tree(w, r)
	if !ok {
		return
	}
	comment, err := tree.EditComment(r.Context(), chi.URLParam(r, "commentID"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment requires ?confirm=true; deletion cannot be undone.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	tree, ok := h.tree(w, r)
	if !ok {
		return
	}
	if err := tree.DeleteComment(r.Context(), chi.URLParam(r, "commentID"), confirmed); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, tree)
}
