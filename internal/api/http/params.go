package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/utils"

	"github.com/gorilla/mux"
)

// Filter values the clients send to mean "no filter".
var allValues = map[string]bool{"": true, "Wszystkie": true, "Wszyscy": true}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid id %q", raw)
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, domain.Validationf("query parameter %s is required", name)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, domain.Validationf("query parameter %s must be an integer", name)
	}
	return int32(v), nil
}

func optionalInt32(r *http.Request, name string) (*int32, error) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, nil
	}
	v, err := queryInt32(r, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, domain.Validationf("query parameter %s is required", name)
	}
	t, err := utils.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, domain.Validationf("query parameter %s is not a valid date: %q", name, raw)
	}
	return t, nil
}

func queryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// queryFilter reads an optional filter, treating the "all" placeholders as empty.
func queryFilter(r *http.Request, name string) string {
	v := queryString(r, name)
	if allValues[v] {
		return ""
	}
	return v
}
