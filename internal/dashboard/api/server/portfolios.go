package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/portfolioservice"
)

// (GET /v1/portfolios).
func (s *Server) listPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := s.portfolioService.ListPortfolios(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, portfolios)
}

// (POST /v1/portfolios).
func (s *Server) createPortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioservice.PortfolioRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.portfolioService.CreatePortfolio(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// (GET /v1/portfolios/{portfolioID}).
func (s *Server) getPortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.portfolioService.GetPortfolio(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, p)
}

// (PATCH /v1/portfolios/{portfolioID}).
func (s *Server) renamePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req portfolioservice.PortfolioRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	p, err := s.portfolioService.RenamePortfolio(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, p)
}

// (DELETE /v1/portfolios/{portfolioID}).
func (s *Server) deletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.portfolioService.DeletePortfolio(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (GET /v1/portfolios/{portfolioID}/summary).
func (s *Server) portfolioSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	currency, err := queryString(r, "currency")
	if err != nil {
		s.writeError(w, err)

		return
	}

	sum, err := s.portfolioService.Summary(r.Context(), userID(r), id, currency)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, sum)
}

// (GET /v1/portfolios/{portfolioID}/assets).
func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	assets, err := s.portfolioService.ListAssets(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, assets)
}

// (POST /v1/portfolios/{portfolioID}/assets).
func (s *Server) addAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req portfolioservice.AssetRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	a, err := s.portfolioService.AddAsset(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// (PATCH /v1/portfolios/{portfolioID}/assets/{assetID}).
func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	assetID, err := pathID(r, "assetID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req portfolioservice.UpdateAssetRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	a, err := s.portfolioService.UpdateAsset(r.Context(), userID(r), portfolioID, assetID, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, a)
}

// (DELETE /v1/portfolios/{portfolioID}/assets/{assetID}).
func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	assetID, err := pathID(r, "assetID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.portfolioService.DeleteAsset(r.Context(), userID(r), portfolioID, assetID); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
