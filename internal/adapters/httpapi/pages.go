package httpapi

import (
	"net/http"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
)

type dashboardResponse struct {
	User     *shared.User       `json:"user"`
	Listings []*listing.Listing `json:"listings"`
	Stats    listing.Stats      `json:"stats"`
}

type newListingResponse struct {
	Categories    []listing.Category     `json:"categories"`
	FuelTypes     []listing.FuelType     `json:"fuel_types"`
	Transmissions []listing.Transmission `json:"transmissions"`
	Conditions    []listing.Condition    `json:"conditions"`
	MaxImages     int                    `json:"max_images"`
	Currency      string                 `json:"currency"`
}

// dashboard handles GET /dashboard: the signed-in user's listings in every status
func (api *API) dashboard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	items, err := api.listings.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	if items == nil {
		items = []*listing.Listing{}
	}
	writeJSON(w, api.logger, http.StatusOK, dashboardResponse{
		User:     user,
		Listings: items,
		Stats:    listing.Summarize(items),
	})
}

// newListing handles GET /new-listing: the choices the listing form offers
func (api *API) newListing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.logger, http.StatusOK, newListingResponse{
		Categories: []listing.Category{
			listing.CategoryPassengerCars, listing.CategoryMotorcycles, listing.CategoryVans,
			listing.CategoryTrucks, listing.CategoryTrailers, listing.CategoryAgricultural, listing.CategoryOther,
		},
		FuelTypes: []listing.FuelType{
			listing.FuelPetrol, listing.FuelDiesel, listing.FuelHybrid,
			listing.FuelElectric, listing.FuelLPG, listing.FuelCNG,
		},
		Transmissions: []listing.Transmission{
			listing.TransmissionManual, listing.TransmissionAutomatic, listing.TransmissionSemiAutomatic,
		},
		Conditions: []listing.Condition{
			listing.ConditionNew, listing.ConditionUsed, listing.ConditionDamaged, listing.ConditionProject,
		},
		MaxImages: listing.MaxImages,
		Currency:  listing.DefaultCurrency,
	})
}

func (api *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.logger, http.StatusOK, map[string]string{"status": "ok", "service": "motoauto"})
}
