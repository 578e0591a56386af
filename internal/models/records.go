package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// User represents a registered member of the exchange
type User struct {
	Id          uint64    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Listing is a tradeable item owned by a user (the "KenyanShillings" record).
// UserId is a plain reference; removing the owner does not cascade.
type Listing struct {
	Id          uint64    `json:"id"`
	UserId      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SwapRequest is a proposal by one user to exchange for another user's listing
type SwapRequest struct {
	Id            uint64     `json:"id"`
	ListingId     uint64     `json:"listing_id"`
	RequestedById uint64     `json:"requested_by_id"`
	Status        SwapStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Feedback is left by a user after a swap
type Feedback struct {
	Id            uint64    `json:"id"`
	UserId        uint64    `json:"user_id"`
	SwapRequestId uint64    `json:"swap_request_id"`
	Rating        uint8     `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// SwapStatus tracks where a swap request is in its lifecycle
type SwapStatus int

const (
	SwapStatusPending SwapStatus = iota
	SwapStatusAccepted
	SwapStatusRejected
)

var swapStatusNames = map[SwapStatus]string{
	SwapStatusPending:  "Pending",
	SwapStatusAccepted: "Accepted",
	SwapStatusRejected: "Rejected",
}

func (s SwapStatus) String() string {
	if name, ok := swapStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SwapStatus(%d)", int(s))
}

// ParseSwapStatus converts a status name back into a SwapStatus
func ParseSwapStatus(name string) (SwapStatus, error) {
	for status, n := range swapStatusNames {
		if n == name {
			return status, nil
		}
	}
	return SwapStatusPending, fmt.Errorf("unknown swap status %q", name)
}

func (s SwapStatus) MarshalJSON() ([]byte, error) {
	name, ok := swapStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown swap status %d", int(s))
	}
	return json.Marshal(name)
}

func (s *SwapStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("swap status must be a string: %w", err)
	}
	status, err := ParseSwapStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}
