package domain

const (
	// DefaultPageSize кол-во записей на странице по умолчанию
	DefaultPageSize = 20
	// MaxPageSize максимальное кол-во записей на странице
	MaxPageSize = 100
)

// Pager — offset-пагинация. Страницы нумеруются с 1.
type Pager struct {
	page, perPage int32
}

// NewPager нормализует параметры страницы: page < 1 приводится к 1,
// perPage вне диапазона — к значениям по умолчанию.
func NewPager(page int32, perPage int32) *Pager {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return &Pager{page: page, perPage: perPage}
}

func (p *Pager) Page() int32 {
	if p == nil {
		return 1
	}
	return p.page
}

func (p *Pager) PageSize() int32 {
	if p == nil {
		return DefaultPageSize
	}
	return p.perPage
}

// Limit вернет SQL LIMIT
func (p *Pager) Limit() int64 {
	if p == nil || p.perPage == 0 {
		return DefaultPageSize
	}
	return int64(p.perPage)
}

// Offset вернет для SQL OFFSET
func (p *Pager) Offset() int64 {
	if p == nil || p.page == 0 {
		return 0
	}
	return int64(p.page-1) * int64(p.perPage)
}

// PaginatedResult результат пагинированного запроса. TotalCount считается
// по всему eligible-набору независимо от окна страницы.
type PaginatedResult[T any] struct {
	Items      []T
	Page       int32
	PageSize   int32
	TotalCount int32
}
