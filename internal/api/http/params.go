package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/staffdesk/hr_service/internal/listview"
)

const defaultPageSize = 10

// listQuery carries the view state a list screen sends: filter values plus
// the page window. Dropdowns send "All" to bypass a filter.
type listQuery struct {
	Search     string
	Status     string
	Department string
	Manager    string
	Page       int
	PageSize   int
}

func bindListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()

	lq := listQuery{Page: 1, PageSize: defaultPageSize}

	strParams := []struct {
		name string
		dst  *string
	}{
		{"search", &lq.Search},
		{"status", &lq.Status},
		{"department", &lq.Department},
		{"manager", &lq.Manager},
	}

	for _, p := range strParams {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dst); err != nil {
			return lq, fmt.Errorf("invalid %s: %w", p.name, err)
		}
	}

	if err := runtime.BindQueryParameter("form", true, false, "page", q, &lq.Page); err != nil {
		return lq, fmt.Errorf("invalid page: %w", err)
	}
	if lq.Page < 1 {
		return lq, fmt.Errorf("invalid page: must be positive")
	}

	if raw := q.Get("page_size"); raw != "" {
		if strings.EqualFold(raw, "all") {
			lq.PageSize = listview.PageSizeAll
		} else {
			size, err := strconv.Atoi(raw)
			if err != nil || size < 1 {
				return lq, fmt.Errorf("invalid page_size: %q", raw)
			}
			lq.PageSize = size
		}
	}

	return lq, nil
}

func urlID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

func urlToken(r *http.Request) string {
	return chi.URLParam(r, "token")
}
