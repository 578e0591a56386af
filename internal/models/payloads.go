package models

// UserPayload carries the user-editable profile fields for create and update
type UserPayload struct {
	Name        string `json:"name" yaml:"name"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
	Email       string `json:"email" yaml:"email"`
}

// ListingPayload describes a new listing
type ListingPayload struct {
	UserId      uint64 `json:"user_id" yaml:"-"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Description string `json:"description" yaml:"description"`
}

// SwapRequestPayload asks for a swap on an existing listing
type SwapRequestPayload struct {
	ListingId     uint64 `json:"listing_id"`
	RequestedById uint64 `json:"requested_by_id"`
}

// FeedbackPayload rates a completed swap
type FeedbackPayload struct {
	UserId        uint64 `json:"user_id"`
	SwapRequestId uint64 `json:"swap_request_id"`
	Rating        uint8  `json:"rating"`
	Comment       string `json:"comment"`
}
