package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer, metrics.InstrumentHandler, loggingMiddleware(s.lg))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimit)
				r.Post("/register", s.register)
				r.Get("/verify", s.verify)
				r.Post("/verify/resend", s.resendVerification)
				r.Post("/login", s.login)
			})
			r.Post("/logout", s.logout)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/coins", s.coins)
			r.Get("/coins/{coinID}", s.coin)
			r.Get("/coins/{coinID}/chart", s.chart)
			r.Get("/trending", s.trending)
			r.Get("/prices", s.prices)
			r.Get("/global", s.global)
			r.Get("/listings", s.listings)
			r.Get("/fear-greed", s.fearGreed)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.optionalSession)
			r.Get("/posts", s.listPosts)
			r.Get("/posts/{postID}", s.getPost)
			r.Get("/posts/{postID}/comments", s.listComments)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/me", s.me)

			r.Get("/tags", s.listTags)
			r.Post("/tags", s.createTag)
			r.Patch("/tags/{tagID}", s.renameTag)
			r.Delete("/tags/{tagID}", s.deleteTag)

			r.Get("/notes", s.listNotes)
			r.Post("/notes", s.createNote)
			r.Get("/notes/{noteID}", s.getNote)
			r.Patch("/notes/{noteID}", s.updateNote)
			r.Delete("/notes/{noteID}", s.deleteNote)

			r.Get("/portfolios", s.listPortfolios)
			r.Post("/portfolios", s.createPortfolio)
			r.Get("/portfolios/{portfolioID}", s.getPortfolio)
			r.Patch("/portfolios/{portfolioID}", s.renamePortfolio)
			r.Delete("/portfolios/{portfolioID}", s.deletePortfolio)
			r.Get("/portfolios/{portfolioID}/summary", s.portfolioSummary)
			r.Get("/portfolios/{portfolioID}/assets", s.listAssets)
			r.Post("/portfolios/{portfolioID}/assets", s.addAsset)
			r.Patch("/portfolios/{portfolioID}/assets/{assetID}", s.updateAsset)
			r.Delete("/portfolios/{portfolioID}/assets/{assetID}", s.deleteAsset)

			r.Post("/posts", s.createPost)
			r.Patch("/posts/{postID}", s.updatePost)
			r.Delete("/posts/{postID}", s.deletePost)
			r.Post("/posts/{postID}/comments", s.addComment)
			r.Post("/posts/{postID}/like", s.toggleLike)
			r.Delete("/comments/{commentID}", s.deleteComment)

			r.Get("/alerts", s.listAlerts)
			r.Post("/alerts", s.createAlert)
			r.Get("/alerts/check", s.checkAlerts)
			r.Delete("/alerts/{alertID}", s.deleteAlert)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
