package model

import "time"

// Review is a user's rating of an event.  At most one review exists per
// (EventID, UserID).  Only approved reviews count towards Event.Rating.
type Review struct {
    ID          uint64    `json:"id"`
    EventID     uint64    `json:"eventId"`
    UserID      uint64    `json:"userId"`
    UserName    *string   `json:"userName,omitempty"`
    Rating      int       `json:"rating"`
    Comment     *string   `json:"comment"`
    IsAnonymous bool      `json:"isAnonymous"`
    IsApproved  bool      `json:"isApproved"`
    CreatedAt   time.Time `json:"createdAt"`
}

// Favorite links a user to an event they bookmarked.
type Favorite struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"userId"`
    EventID   uint64    `json:"eventId"`
    CreatedAt time.Time `json:"createdAt"`
}
