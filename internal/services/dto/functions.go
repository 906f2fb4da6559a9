package dto

type CreateApprovedUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateApprovedUserResult struct {
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	ProfileID      string `json:"profileId"`
	UserCreated    bool   `json:"userCreated"`
	ProfileCreated bool   `json:"profileCreated"`
	EmailSent      bool   `json:"emailSent"`

	// only set when the user was created by this call
	TemporaryPassword string `json:"-"`
}

// ApplicationInterest - a fellow's interest in an opportunity
type ApplicationInterest struct {
	FellowName  string `json:"fellowName"`
	FellowEmail string `json:"fellowEmail"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Message     string `json:"message,omitempty"`
	To          string `json:"to,omitempty"`
}
