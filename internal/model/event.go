package model

import "time"

// EventFields holds the descriptive content shared by live events and
// pending submissions.  Dates are wall-clock strings in the site's time
// zone: StartDate/EndDate use "2006-01-02" and StartTime/EndTime use "15:04".
//
// Fields:
//  Location     – venue or place name shown on listings.
//  Address      – optional street address.
//  Media        – arbitrary media items beyond the three image slots.
//  Capacity     – optional attendee limit.
type EventFields struct {
    Title            string      `json:"title"`
    Description      *string     `json:"description"`
    Location         string      `json:"location"`
    Address          *string     `json:"address"`
    StartDate        string      `json:"startDate"`
    EndDate          *string     `json:"endDate"`
    StartTime        *string     `json:"startTime"`
    EndTime          *string     `json:"endTime"`
    Latitude         *float64    `json:"latitude"`
    Longitude        *float64    `json:"longitude"`
    ImageURL         *string     `json:"imageUrl"`
    ImageURL2        *string     `json:"imageUrl2"`
    ImageURL3        *string     `json:"imageUrl3"`
    Media            []MediaItem `json:"media"`
    OrganizerName    *string     `json:"organizerName"`
    OrganizerContact *string     `json:"organizerContact"`
    Capacity         *int        `json:"capacity"`
    WebsiteURL       *string     `json:"websiteUrl"`
    TicketURL        *string     `json:"ticketUrl"`
}

// MediaItem is one entry of the JSON-encoded media column.  Rotation is
// stored in degrees so clients can display phone uploads upright.
type MediaItem struct {
    URL      string `json:"url"`
    Type     string `json:"type"`
    Rotation int    `json:"rotation"`
}

// Event is a published listing (row in `events`).  Rating and ReviewCount
// are maintained from approved reviews; callers never write them directly.
type Event struct {
    ID uint64 `json:"id"`
    EventFields
    Price       string    `json:"price"`
    IsActive    bool      `json:"isActive"`
    IsFeatured  bool      `json:"isFeatured"`
    Rating      float64   `json:"rating"`
    ReviewCount int       `json:"reviewCount"`
    CategoryIDs []uint64  `json:"categoryIds"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// StatusPending is the only stored state of a submission.  Approval and
// rejection remove the row instead of changing it.
const StatusPending = "pending"

// Submitter identifies the person who proposed an event or venue.
type Submitter struct {
    SubmitterName  string  `json:"submitterName"`
    SubmitterEmail string  `json:"submitterEmail"`
    SubmitterPhone *string `json:"submitterPhone"`
}

// PendingEvent is an event awaiting moderation (row in `pending_events`).
type PendingEvent struct {
    ID uint64 `json:"id"`
    EventFields
    Submitter
    Price       *string   `json:"price"`
    Status      string    `json:"status"`
    CategoryIDs []uint64  `json:"categoryIds"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// EventDraft carries optional field overrides supplied by an admin when
// editing or approving a submission, or when editing a live event.  A nil
// pointer (or an empty string) means "keep the stored value".
type EventDraft struct {
    Title            *string      `json:"title"`
    Description      *string      `json:"description"`
    Location         *string      `json:"location"`
    Venue            *string      `json:"venue"`
    Address          *string      `json:"address"`
    StartDate        *string      `json:"startDate"`
    EndDate          *string      `json:"endDate"`
    StartTime        *string      `json:"startTime"`
    EndTime          *string      `json:"endTime"`
    Latitude         *float64     `json:"latitude"`
    Longitude        *float64     `json:"longitude"`
    ImageURL         *string      `json:"imageUrl"`
    ImageURL2        *string      `json:"imageUrl2"`
    ImageURL3        *string      `json:"imageUrl3"`
    Media            *[]MediaItem `json:"media"`
    OrganizerName    *string      `json:"organizerName"`
    OrganizerContact *string      `json:"organizerContact"`
    Capacity         *int         `json:"capacity"`
    Price            *string      `json:"price"`
    WebsiteURL       *string      `json:"websiteUrl"`
    TicketURL        *string      `json:"ticketUrl"`
    IsFeatured       *bool        `json:"isFeatured"`
    CategoryIDs      []uint64     `json:"categoryIds"`
}
