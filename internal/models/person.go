package models

// Person is a payer or payee. Name is the primary key.
type Person struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// CreatePersonRequest represents the request body for creating a person
type CreatePersonRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}
