package response

import "testing"

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		want        PaginationMeta
	}{
		{0, 0, 45, PaginationMeta{CurrentPage: 1, PerPage: 20, Total: 45, TotalPages: 3}},
		{2, 10, 20, PaginationMeta{CurrentPage: 2, PerPage: 10, Total: 20, TotalPages: 2}},
		{1, 500, 3, PaginationMeta{CurrentPage: 1, PerPage: 100, Total: 3, TotalPages: 1}},
		{1, 10, 0, PaginationMeta{CurrentPage: 1, PerPage: 10, Total: 0, TotalPages: 0}},
	}
	for _, tt := range tests {
		if got := CalculatePagination(tt.page, tt.limit, tt.total); got != tt.want {
			t.Errorf("CalculatePagination(%d,%d,%d) = %+v, want %+v", tt.page, tt.limit, tt.total, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	p := CalculatePagination(3, 10, 25)
	if s, e := p.Window(25); s != 20 || e != 25 {
		t.Fatalf("window = %d,%d", s, e)
	}
	p = CalculatePagination(9, 10, 25)
	if s, e := p.Window(25); s != 25 || e != 25 {
		t.Fatalf("past-the-end window = %d,%d", s, e)
	}
}
