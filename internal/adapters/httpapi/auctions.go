package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"motoauto-service/internal/domain/shared"
)

type validateBidRequest struct {
	Amount string `json:"amount"`
}

// listAuctions handles GET /api/auctions
func (api *API) listAuctions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	page, err := api.auctions.Search(r.Context(), filter)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, page)
}

// getAuction handles GET /api/auctions/{id}
func (api *API) getAuction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	a, err := api.auctions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, a)
}

// bidPanel handles GET /api/auctions/{id}/bid-panel
func (api *API) bidPanel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	panel, err := api.auctions.BidPanel(r.Context(), id)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, panel)
}

// validateBid handles POST /api/auctions/{id}/bids/validate. A below-minimum
// amount answers 200 with accepted=false so the form can show the minimum inline.
func (api *API) validateBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}

	var req validateBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, api.logger, fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err))
		return
	}

	check, err := api.auctions.ValidateBid(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, check)
}
