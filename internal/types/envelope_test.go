package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageValidate(t *testing.T) {
	tests := []struct {
		name    string
		page    Page[int]
		wantErr string
	}{
		{
			name: "first of several",
			page: Page[int]{Content: []int{1, 2}, Size: 2, TotalPages: 3, Number: 0, First: true},
		},
		{
			name: "last page",
			page: Page[int]{Content: []int{5}, Size: 2, TotalPages: 3, Number: 2, Last: true},
		},
		{
			name: "empty listing",
			page: Page[int]{Size: 0, Number: 0, First: true, Last: true},
		},
		{
			name:    "more items than size",
			page:    Page[int]{Content: []int{1, 2, 3}, Size: 2, TotalPages: 1, First: true, Last: true},
			wantErr: "page holds 3 items but size is 2",
		},
		{
			name:    "items with zero size",
			page:    Page[int]{Content: []int{1, 2, 3}, Size: 0, TotalPages: 1, First: true, Last: true},
			wantErr: "page holds 3 items but size is 0",
		},
		{
			name:    "first flag on later page",
			page:    Page[int]{Size: 2, TotalPages: 3, Number: 1, First: true},
			wantErr: "page 1 has first=true",
		},
		{
			name:    "last flag missing",
			page:    Page[int]{Size: 2, TotalPages: 3, Number: 2},
			wantErr: "page 2 of 3 has last=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"id,desc", []string{"id,desc"}},
		{"id,desc;name,asc", []string{"id,desc", "name,asc"}},
		{" id,desc ; ;name ", []string{"id,desc", "name"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSort(tt.raw), "ParseSort(%q)", tt.raw)
	}
}
