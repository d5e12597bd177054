package http

import (
	"net/http"
)

func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.stocks.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]holdingPayload, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, toHoldingPayload(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var p holdingPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.stocks.Add(r.Context(), p.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHoldingPayload(created))
}

func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	if err := s.stocks.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleValuations(w http.ResponseWriter, r *http.Request) {
	valuations, err := s.stocks.Valuations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, valuations)
}

type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	price, err := s.stocks.Price(r.Context(), symbol)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Symbol: symbol, Price: price})
}

func (s *Server) handleListMortgages(w http.ResponseWriter, r *http.Request) {
	mortgages, err := s.mortgage.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]mortgagePayload, 0, len(mortgages))
	for _, m := range mortgages {
		out = append(out, toMortgagePayload(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddMortgage(w http.ResponseWriter, r *http.Request) {
	var p mortgagePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.mortgage.Add(r.Context(), p.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMortgagePayload(created))
}

func (s *Server) handleUpdateMortgage(w http.ResponseWriter, r *http.Request) {
	var p mortgagePayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.mortgage.Update(r.Context(), r.PathValue("id"), p.toCore())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMortgagePayload(updated))
}

func (s *Server) handleDeleteMortgage(w http.ResponseWriter, r *http.Request) {
	if err := s.mortgage.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
