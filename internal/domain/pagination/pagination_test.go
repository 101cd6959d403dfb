package pagination

import (
	"math"
	"strconv"
	"testing"
)

// TestParseParams проверяет разбор параметров и откат к умолчаниям.
func TestParseParams(t *testing.T) {
	tests := []struct {
		name   string
		limit  string
		offset string
		want   Params
	}{
		{"пустые", "", "", Params{10, 0}},
		{"оба заданы", "5", "20", Params{5, 20}},
		{"только limit", "3", "", Params{3, 0}},
		{"только offset", "", "7", Params{10, 7}},
		{"limit=0", "0", "0", Params{0, 0}},
		{"нечисловой limit", "abc", "5", Params{10, 0}},
		{"нечисловой offset", "5", "x", Params{10, 0}},
		{"отрицательный limit", "-1", "5", Params{10, 0}},
		{"отрицательный offset", "5", "-3", Params{10, 0}},
		{"дробное значение", "2.5", "0", Params{10, 0}},
		{"переполнение", "99999999999999999999999", "0", Params{10, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.limit, tt.offset)
			if got != tt.want {
				t.Errorf("ParseParams(%q, %q) = %+v, ожидалось %+v", tt.limit, tt.offset, got, tt.want)
			}
		})
	}
}

// TestPaginate проверяет границы страницы и номер последней страницы.
func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		limit        int
		offset       int
		wantBounds   Bounds
		wantLastPage int
	}{
		{"первая страница", 25, 10, 0, Bounds{0, 10}, 3},
		{"последняя неполная", 25, 10, 20, Bounds{20, 25}, 3},
		{"кратно limit", 20, 10, 10, Bounds{10, 20}, 2},
		{"offset за пределами", 5, 10, 50, Bounds{5, 5}, 1},
		{"пустой список", 0, 10, 0, Bounds{0, 0}, 0},
		{"limit=0", 7, 0, 0, Bounds{0, 0}, 1},
		{"limit=0 пустой список", 0, 0, 0, Bounds{0, 0}, 1},
		{"один элемент", 1, 1, 0, Bounds{0, 1}, 1},
		{"большой limit", 3, math.MaxInt, 1, Bounds{1, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds, lastPage := Paginate(tt.total, tt.limit, tt.offset)
			if bounds != tt.wantBounds {
				t.Errorf("границы: ожидалось %+v, получено %+v", tt.wantBounds, bounds)
			}
			if lastPage != tt.wantLastPage {
				t.Errorf("lastpage: ожидалось %d, получено %d", tt.wantLastPage, lastPage)
			}
		})
	}
}

// TestPaginate_CoversAllItems проверяет, что страницы покрывают весь список без пропусков.
func TestPaginate_CoversAllItems(t *testing.T) {
	for total := 0; total <= 30; total++ {
		for limit := 1; limit <= 7; limit++ {
			t.Run(strconv.Itoa(total)+"/"+strconv.Itoa(limit), func(t *testing.T) {
				_, lastPage := Paginate(total, limit, 0)
				seen := 0
				for page := 0; page < lastPage; page++ {
					b, _ := Paginate(total, limit, page*limit)
					if b.Start != seen {
						t.Fatalf("страница %d начинается с %d, ожидалось %d", page, b.Start, seen)
					}
					seen = b.End
				}
				if seen != total {
					t.Errorf("покрыто %d элементов из %d", seen, total)
				}
			})
		}
	}
}
