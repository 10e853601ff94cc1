package api

import (
	"net/http/httptest"
	"testing"

	"github.com/staffdesk/hr_service/internal/listview"
	"github.com/stretchr/testify/assert"
)

func TestBindListQuery(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    listQuery
		wantErr bool
	}{
		{
			name: "defaults",
			url:  "/api/v1/employees",
			want: listQuery{Page: 1, PageSize: defaultPageSize},
		},
		{
			name: "all filters bound",
			url:  "/api/v1/employees?search=jane&status=Active&department=Engineering&manager=2&page=3&page_size=25",
			want: listQuery{
				Search:     "jane",
				Status:     "Active",
				Department: "Engineering",
				Manager:    "2",
				Page:       3,
				PageSize:   25,
			},
		},
		{
			name: "page size all disables pagination",
			url:  "/api/v1/employees?page_size=all",
			want: listQuery{Page: 1, PageSize: listview.PageSizeAll},
		},
		{
			name: "page size all is case insensitive",
			url:  "/api/v1/employees?page_size=All",
			want: listQuery{Page: 1, PageSize: listview.PageSizeAll},
		},
		{
			name:    "zero page rejected",
			url:     "/api/v1/employees?page=0",
			wantErr: true,
		},
		{
			name:    "non-numeric page rejected",
			url:     "/api/v1/employees?page=abc",
			wantErr: true,
		},
		{
			name:    "zero page size rejected",
			url:     "/api/v1/employees?page_size=0",
			wantErr: true,
		},
		{
			name:    "non-numeric page size rejected",
			url:     "/api/v1/employees?page_size=lots",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)

			got, err := bindListQuery(r)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
