package booking

// Page описывает одну страницу элементов выдачи.
type Page[T any] struct {
	Items    []T // элементы на текущей странице
	Page     int // номер страницы (с 1)
	PageSize int // количество элементов на странице
	HasNext  bool
	HasPrev  bool
	Total    int // общее количество элементов по тому же предикату
}

// NormalizePaging приводит параметры пагинации к контракту поиска:
// page >= 1, pageSize в пределах [1, maxPageSize]. Неположительный
// pageSize трактуется как «не задан» и заменяется значением по
// умолчанию (10), а не поднимается до нижней границы 1.
func NormalizePaging(page, pageSize, maxPageSize int) (int, int) {
	const defaultPageSize = 10

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// NewPage собирает страницу из уже отфильтрованных элементов и общего счёта.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	offset := (page - 1) * pageSize
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasPrev:  page > 1,
		HasNext:  offset+len(items) < total,
		Total:    total,
	}
}
