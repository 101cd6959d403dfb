// Пакет pagination — разбор параметров постраничного вывода
// и вычисление границ страницы.
package pagination

import "strconv"

// Значения по умолчанию.
const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// Params — параметры страницы.
type Params struct {
	Limit  int
	Offset int
}

// Bounds — границы среза [Start, End) отсортированного списка.
type Bounds struct {
	Start int
	End   int
}

// Len возвращает количество элементов в срезе.
func (b Bounds) Len() int {
	return b.End - b.Start
}

// Defaults возвращает параметры по умолчанию.
func Defaults() Params {
	return Params{Limit: DefaultLimit, Offset: DefaultOffset}
}

// ParseParams разбирает limit и offset из строк запроса.
// Пустое значение заменяется значением по умолчанию. Если хотя бы одно
// значение не является неотрицательным целым, оба сбрасываются к умолчаниям.
func ParseParams(rawLimit, rawOffset string) Params {
	p := Defaults()

	limit, ok := parseNonNegative(rawLimit, DefaultLimit)
	if !ok {
		return Defaults()
	}
	offset, ok := parseNonNegative(rawOffset, DefaultOffset)
	if !ok {
		return Defaults()
	}

	p.Limit = limit
	p.Offset = offset
	return p
}

// Paginate вычисляет границы страницы и номер последней страницы.
// lastPage = ceil(total/limit) при limit > 0, иначе 1.
// Смещение за пределами списка даёт пустой срез.
func Paginate(total, limit, offset int) (Bounds, int) {
	if total < 0 {
		total = 0
	}
	if offset < 0 {
		offset = 0
	}

	lastPage := 1
	if limit > 0 {
		lastPage = total / limit
		if total%limit != 0 {
			lastPage++
		}
	} else {
		limit = 0
	}

	start := min(offset, total)
	// offset+limit может переполниться при больших значениях
	end := total
	if limit < total-start {
		end = start + limit
	}

	return Bounds{Start: start, End: end}, lastPage
}

func parseNonNegative(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
