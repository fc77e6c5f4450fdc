package paginate

// Result is the envelope returned for one page.
type Result[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta wraps the pagination block so the envelope can grow other metadata.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the returned page. Count is the number of records on
// this page, not a total.
type Pagination struct {
	Count       int   `json:"count"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	Links       Links `json:"links"`
}

// Links point at neighbouring pages; nil encodes as null.
type Links struct {
	Previous *int `json:"previous"`
	Next     *int `json:"next"`
}

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Links.Next != nil }

// HasPrevious reports whether current_page is past the first page.
func (p Pagination) HasPrevious() bool { return p.Links.Previous != nil }

func newLinks(page int, hasNext bool) Links {
	var l Links
	if page > 1 {
		prev := page - 1
		l.Previous = &prev
	}
	if hasNext {
		next := page + 1
		l.Next = &next
	}
	return l
}
