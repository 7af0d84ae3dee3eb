package models

// User is a registered username. ID is the store-assigned identifier rendered
// as a string (a 24 character hex ObjectID for the Mongo store).
type User struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

type CreateUserRequest struct {
	Username string `json:"username" form:"username"`
}
