package shelfsdk

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Book is a catalog volume in the flattened shape the API uses.
type Book struct {
	GoogleBookID string `json:"googleBookId"`
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
}

// UserBook is an entry on the signed-in user's read list.
type UserBook struct {
	ID int64 `json:"id"`
	Book
}

type SearchResponse struct {
	TotalItems int    `json:"totalItems"`
	Books      []Book `json:"books"`
}

type PagedBooksResponse struct {
	Content       []UserBook `json:"content"`
	TotalElements int64      `json:"totalElements"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Uptime  string        `json:"uptime"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
