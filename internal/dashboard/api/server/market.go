package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/marketservice"
)

// (GET /v1/market/coins).
func (s *Server) coins(w http.ResponseWriter, r *http.Request) {
	var (
		req marketservice.CoinsRequest
		err error
	)

	if req.Currency, err = queryString(r, "currency"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Page, err = queryInt(r, "page"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.PerPage, err = queryInt(r, "per_page"); err != nil {
		s.writeError(w, err)

		return
	}

	coins, err := s.marketService.Coins(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, coins)
}

// (GET /v1/market/coins/{coinID}).
func (s *Server) coin(w http.ResponseWriter, r *http.Request) {
	id, err := pathString(r, "coinID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	currency, err := queryString(r, "currency")
	if err != nil {
		s.writeError(w, err)

		return
	}

	c, err := s.marketService.Coin(r.Context(), id, currency)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, c)
}

// (GET /v1/market/coins/{coinID}/chart).
func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	var (
		req marketservice.ChartRequest
		err error
	)

	if req.CoinID, err = pathString(r, "coinID"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Currency, err = queryString(r, "currency"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Days, err = queryString(r, "days"); err != nil {
		s.writeError(w, err)

		return
	}

	points, err := s.marketService.Chart(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, points)
}

// (GET /v1/market/trending).
func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	coins, err := s.marketService.Trending(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, coins)
}

// (GET /v1/market/prices).
func (s *Server) prices(w http.ResponseWriter, r *http.Request) {
	var (
		req marketservice.PricesRequest
		err error
	)

	if req.CoinIDs, err = queryList(r, "ids"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Currency, err = queryString(r, "currency"); err != nil {
		s.writeError(w, err)

		return
	}

	prices, err := s.marketService.Prices(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, prices)
}

// (GET /v1/market/global).
func (s *Server) global(w http.ResponseWriter, r *http.Request) {
	currency, err := queryString(r, "currency")
	if err != nil {
		s.writeError(w, err)

		return
	}

	g, err := s.marketService.Global(r.Context(), currency)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, g)
}

// (GET /v1/market/listings).
func (s *Server) listings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, err)

		return
	}

	currency, err := queryString(r, "currency")
	if err != nil {
		s.writeError(w, err)

		return
	}

	l, err := s.marketService.Listings(r.Context(), limit, currency)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, l)
}

// (GET /v1/market/fear-greed).
func (s *Server) fearGreed(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, err)

		return
	}

	idx, err := s.marketService.FearGreed(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, idx)
}
