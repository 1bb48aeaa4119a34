package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/feedservice"
)

// (GET /v1/posts).
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	req := feedservice.ListPostsRequest{ViewerID: userID(r)} //nolint:exhaustruct

	var err error

	if req.AuthorID, err = queryInt64(r, "author"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Limit, err = queryInt(r, "limit"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Offset, err = queryInt(r, "offset"); err != nil {
		s.writeError(w, err)

		return
	}

	posts, err := s.feedService.ListPosts(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// (GET /v1/posts/{postID}).
func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.feedService.GetPost(r.Context(), id, userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, p)
}

// (POST /v1/posts).
func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req feedservice.PostRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.feedService.CreatePost(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// (PATCH /v1/posts/{postID}).
func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req feedservice.PostRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.feedService.UpdatePost(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, p)
}

// (DELETE /v1/posts/{postID}).
func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.feedService.DeletePost(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (GET /v1/posts/{postID}/comments).
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	comments, err := s.feedService.ListComments(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// (POST /v1/posts/{postID}/comments).
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req feedservice.CommentRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	c, err := s.feedService.AddComment(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// (DELETE /v1/comments/{commentID}).
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.feedService.DeleteComment(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (POST /v1/posts/{postID}/like).
func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	res, err := s.feedService.ToggleLike(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, res)
}
