package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

// Page is offset pagination as exposed by the API (from / size).
type Page struct {
	From int
	Size int
}

func DefaultPage() Page { return Page{From: 0, Size: DefaultPageSize} }

func (p Page) Validate() error {
	meta := map[string]string{}
	if p.From < 0 {
		meta["from"] = "must be >= 0"
	}
	if p.Size <= 0 || p.Size > MaxPageSize {
		meta["size"] = "must be between 1 and 1000"
	}
	if len(meta) > 0 {
		return ErrValidationMeta("invalid pagination", meta)
	}
	return nil
}
