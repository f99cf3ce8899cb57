package models

// ListMeta описывает метаданные постраничного ответа.
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Paginated — постраничная выборка вместе с метаданными,
// попадает в поле data общего конверта ответа.
type Paginated struct {
	Data any      `json:"data"`
	Meta ListMeta `json:"meta"`
}

// NewListMeta собирает метаданные страницы: totalPages = ceil(total/limit).
func NewListMeta(total, page, limit int) ListMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return ListMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
