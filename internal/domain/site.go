package domain

// Site is a job location rentals are delivered to.
type Site struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SiteInput struct {
	Name string `json:"name" validate:"required,max=200"`
}
