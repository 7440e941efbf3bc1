package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 10 << 20
)

// listListings handles GET /api/listings
func (api *API) listListings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	page, err := api.listings.Search(r.Context(), filter)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, page)
}

// getListing handles GET /api/listings/{id}
func (api *API) getListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	l, err := api.listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, l)
}

// createListing handles the multipart POST /api/listings
func (api *API) createListing(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, r, api.logger, fmt.Errorf("%w: invalid multipart form", shared.ErrInvalidRequest))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := parseForm(r.MultipartForm.Value)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) > listing.MaxImages {
		writeError(w, r, api.logger, shared.ErrTooManyImages)
		return
	}
	uploads := make([]inbound.ImageUpload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			writeError(w, r, api.logger, fmt.Errorf("failed to open image %s: %w", header.Filename, err))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		file.Close()
		if err != nil {
			writeError(w, r, api.logger, fmt.Errorf("failed to read image %s: %w", header.Filename, err))
			return
		}
		if len(data) > maxImageBytes {
			writeError(w, r, api.logger, fmt.Errorf("%w: image %s is too large", shared.ErrInvalidRequest, header.Filename))
			return
		}
		uploads = append(uploads, inbound.ImageUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := api.listings.Create(r.Context(), inbound.CreateListingRequest{
		OwnerID: user.ID,
		Form:    form,
		Images:  uploads,
	})
	// A result with an error means the listing exists but the image URLs
	// were not attached; the client still gets the created record.
	if err != nil && result == nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusCreated, result)
}

// updateListing handles PATCH /api/listings/{id}
func (api *API) updateListing(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}

	var patch listing.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, r, api.logger, fmt.Errorf("%w: %v", shared.ErrInvalidRequest, err))
		return
	}

	l, err := api.listings.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	writeJSON(w, api.logger, http.StatusOK, l)
}

// deleteListing handles DELETE /api/listings/{id}
func (api *API) deleteListing(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	if err := api.listings.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// myListings handles GET /api/me/listings
func (api *API) myListings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	items, err := api.listings.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, api.logger, err)
		return
	}
	if items == nil {
		items = []*listing.Listing{}
	}
	writeJSON(w, api.logger, http.StatusOK, map[string]interface{}{"items": items})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, shared.ErrInvalidID
	}
	return id, nil
}

// parseFilter reads a search filter from query parameters. Enum and range
// checks are left to the listing service.
func parseFilter(q url.Values) (listing.Filter, error) {
	f := listing.Filter{
		Category:     listing.Category(q.Get("category")),
		FuelType:     listing.FuelType(q.Get("fuel_type")),
		Transmission: listing.Transmission(q.Get("transmission")),
		Condition:    listing.Condition(q.Get("condition")),
		Location:     q.Get("location"),
		Query:        q.Get("q"),
		SortBy:       listing.SortField(q.Get("sort_by")),
		SortOrder:    listing.SortOrder(q.Get("sort_order")),
	}
	if f.Query == "" {
		f.Query = q.Get("query")
	}

	var err error
	if f.PriceMin, err = optionalFloat(q, "price_min"); err != nil {
		return f, err
	}
	if f.PriceMax, err = optionalFloat(q, "price_max"); err != nil {
		return f, err
	}
	if f.YearMin, err = optionalInt(q, "year_min"); err != nil {
		return f, err
	}
	if f.YearMax, err = optionalInt(q, "year_max"); err != nil {
		return f, err
	}
	if f.MileageMax, err = optionalInt(q, "mileage_max"); err != nil {
		return f, err
	}
	page, err := optionalInt(q, "page")
	if err != nil {
		return f, err
	}
	if page != nil {
		f.Page = *page
	}
	size, err := optionalInt(q, "page_size")
	if err != nil {
		return f, err
	}
	if size != nil {
		f.PageSize = *size
	}
	return f, nil
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %s must be a finite number", shared.ErrInvalidFilter, key)
	}
	return &v, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number", shared.ErrInvalidFilter, key)
	}
	return &v, nil
}

// parseForm reads the listing fields of a multipart form
func parseForm(values url.Values) (listing.Form, error) {
	form := listing.Form{
		Title:        values.Get("title"),
		Description:  values.Get("description"),
		Category:     listing.Category(values.Get("category")),
		FuelType:     listing.FuelType(values.Get("fuel_type")),
		Transmission: listing.Transmission(values.Get("transmission")),
		Condition:    listing.Condition(values.Get("condition")),
		Location:     values.Get("location"),
	}

	price, err := optionalFloat(values, "price")
	if err != nil {
		return form, fmt.Errorf("%w: price must be a number", shared.ErrInvalidPrice)
	}
	if price != nil {
		form.Price = *price
	}

	for key, dst := range map[string]**int{"year": &form.Year, "mileage": &form.Mileage, "engine_size": &form.EngineSize} {
		v, err := optionalInt(values, key)
		if err != nil {
			return form, fmt.Errorf("%w: %s must be a whole number", shared.ErrInvalidRequest, key)
		}
		*dst = v
	}
	for key, dst := range map[string]**float64{"reserve_price": &form.ReservePrice, "buy_now_price": &form.BuyNowPrice} {
		v, err := optionalFloat(values, key)
		if err != nil {
			return form, fmt.Errorf("%w: %s must be a number", shared.ErrInvalidPrice, key)
		}
		*dst = v
	}

	if raw := strings.TrimSpace(values.Get("auction_end_date")); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return form, fmt.Errorf("%w: auction_end_date must be RFC 3339", shared.ErrInvalidRequest)
		}
		form.AuctionEnd = &end
	}
	return form, nil
}
