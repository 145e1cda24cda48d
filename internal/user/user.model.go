package user

import "time"

type User struct {
	ID            string    `json:"id"`
	ClerkID       string    `json:"clerkId"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ActiveUser is a user with at least one mood log inside the activity window.
type ActiveUser struct {
	ID          string    `json:"id"`
	ClerkID     string    `json:"clerkId"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	LastLogDate time.Time `json:"lastLogDate"`
	LogCount    int       `json:"logCount"`
}

// MonthlyUserCount is the number of sign-ups in one calendar month.
type MonthlyUserCount struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
