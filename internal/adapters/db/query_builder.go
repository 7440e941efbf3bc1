package db

import (
	"fmt"
	"strings"

	"motoauto-service/internal/domain/listing"

	"github.com/lib/pq"
)

const listingColumns = `id, owner_id, title, description, price, currency, category, status,
		year, mileage, engine_size, fuel_type, transmission, condition, location, images,
		views, bid_count, featured, created_at, updated_at,
		auction_end_date, current_bid, reserve_price, buy_now_price`

// sortColumns whitelists the columns a search may be ordered by
var sortColumns = map[listing.SortField]string{
	listing.SortByPrice:     "price",
	listing.SortByYear:      "year",
	listing.SortByMileage:   "mileage",
	listing.SortByCreatedAt: "created_at",
}

type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends a clause whose single %d is replaced by the placeholder index of arg
func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func buildWhere(f listing.Filter) *whereBuilder {
	w := &whereBuilder{}

	if f.Status != "" {
		w.add("status = ANY($%d)", pq.Array(listing.RawStatuses(f.Status)))
	}
	if f.AuctionsOnly {
		w.addRaw("auction_end_date IS NOT NULL AND auction_end_date > NOW()")
	}
	if f.Category != "" {
		w.add("category = $%d", string(f.Category))
	}
	if f.FuelType != "" {
		w.add("fuel_type = $%d", string(f.FuelType))
	}
	if f.Transmission != "" {
		w.add("transmission = $%d", string(f.Transmission))
	}
	if f.Condition != "" {
		w.add("condition = $%d", string(f.Condition))
	}
	if f.PriceMin != nil {
		w.add("price >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		w.add("price <= $%d", *f.PriceMax)
	}
	if f.YearMin != nil {
		w.add("year >= $%d", *f.YearMin)
	}
	if f.YearMax != nil {
		w.add("year <= $%d", *f.YearMax)
	}
	if f.MileageMax != nil {
		w.add("mileage <= $%d", *f.MileageMax)
	}
	if f.Location != "" {
		w.add("location ILIKE $%d", containsPattern(f.Location))
	}
	if f.Query != "" {
		w.add("title ILIKE $%d", containsPattern(f.Query))
	}
	return w
}

// containsPattern turns s into an ILIKE substring pattern with its wildcards escaped
func containsPattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}

func orderBy(f listing.Filter) string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == listing.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id %s", column, direction, direction)
}

// BuildListingQuery translates a normalized filter into one page of rows,
// each carrying the total match count
func BuildListingQuery(f listing.Filter) (string, []interface{}) {
	w := buildWhere(f)
	query := "SELECT " + listingColumns + ", COUNT(*) OVER() AS total_count FROM listings" +
		w.String() + orderBy(f)

	args := append(w.args, f.PageSize, f.Offset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

// BuildListingCountQuery counts the matches of a filter without paging
func BuildListingCountQuery(f listing.Filter) (string, []interface{}) {
	w := buildWhere(f)
	return "SELECT COUNT(*) FROM listings" + w.String(), w.args
}
