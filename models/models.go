package models

import "time"

// TimeSlot status values.
const (
	SlotAvailable = "available"
	SlotPending   = "pending"
	SlotBooked    = "booked"
	SlotCancelled = "cancelled"
)

// BookingRequest status values.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestRejected  = "rejected"
	RequestCancelled = "cancelled"
)

// PaymentPending is a placeholder; no logic in this service enforces payment.
const PaymentPending = "pending"

// TimeSlot is a photographer's offered shooting window.
// BookedBy is non-empty if and only if Status is "booked".
type TimeSlot struct {
	ID             string     `json:"id" bson:"id"`
	PhotographerID string     `json:"photographerId" bson:"photographerId"`
	Date           time.Time  `json:"date" bson:"date"`
	StartTime      string     `json:"startTime" bson:"startTime"` // "HH:MM" wall clock
	EndTime        string     `json:"endTime" bson:"endTime"`
	Status         string     `json:"status" bson:"status"`
	Price          float64    `json:"price" bson:"price"`
	Location       string     `json:"location" bson:"location"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	BookedBy       string     `json:"bookedBy,omitempty" bson:"bookedBy,omitempty"`
	BookedByName   string     `json:"bookedByName,omitempty" bson:"bookedByName,omitempty"`
	BookedAt       *time.Time `json:"bookedAt,omitempty" bson:"bookedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
}

// BookingRequest is a cosplayer's claim on a time slot. Requests are never
// deleted; rejected and cancelled ones are kept as history.
type BookingRequest struct {
	ID               string    `json:"id" bson:"id"`
	TimeSlotID       string    `json:"timeSlotId" bson:"timeSlotId"`
	PhotographerID   string    `json:"photographerId" bson:"photographerId"`
	CosplayerID      string    `json:"cosplayerId" bson:"cosplayerId"`
	RequestDate      time.Time `json:"requestDate" bson:"requestDate"`
	Status           string    `json:"status" bson:"status"`
	Message          string    `json:"message,omitempty" bson:"message,omitempty"`
	CosplayCharacter string    `json:"cosplayCharacter,omitempty" bson:"cosplayCharacter,omitempty"`
	CosplayReference string    `json:"cosplayReference,omitempty" bson:"cosplayReference,omitempty"`
	PaymentStatus    string    `json:"paymentStatus" bson:"paymentStatus"`
}

type User struct {
	UserID        string     `json:"userid" bson:"userid"`
	Username      string     `json:"username" bson:"username"`
	Email         string     `json:"email,omitempty" bson:"email,omitempty"`
	Password      string     `json:"-" bson:"password,omitempty"`
	Role          []string   `json:"role" bson:"role"` // "photographer", "cosplayer"
	DisplayName   string     `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Bio           string     `json:"bio,omitempty" bson:"bio,omitempty"`
	Location      string     `json:"location,omitempty" bson:"location,omitempty"`
	ProfilePic    string     `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	RatingAvg     float64    `json:"ratingAvg" bson:"ratingAvg"`
	RatingCount   int        `json:"ratingCount" bson:"ratingCount"`
	RefreshToken  string     `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry *time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     *time.Time `json:"-" bson:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`

	// Set-membership fields toggled through the generic favorites helper.
	FavoritePhotographers []string `json:"favoritePhotographers,omitempty" bson:"favoritePhotographers,omitempty"`
	FavoriteCosplayers    []string `json:"favoriteCosplayers,omitempty" bson:"favoriteCosplayers,omitempty"`
	Conventions           []string `json:"conventions,omitempty" bson:"conventions,omitempty"`
}

type Review struct {
	ReviewID       string    `json:"reviewId" bson:"reviewId"`
	PhotographerID string    `json:"photographerId" bson:"photographerId"`
	UserID         string    `json:"userId" bson:"userId"`
	Rating         int       `json:"rating" bson:"rating"`
	Comment        string    `json:"comment" bson:"comment"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

type Chat struct {
	ChatID    string    `json:"chatId" bson:"chatId"`
	Users     []string  `json:"users" bson:"users"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Message struct {
	MessageID string    `json:"messageId" bson:"messageId"`
	ChatID    string    `json:"chatId" bson:"chatId"`
	SenderID  string    `json:"senderId" bson:"senderId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Notification struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	Kind      string    `json:"kind" bson:"kind"`
	Text      string    `json:"text" bson:"text"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// BookingEvent is published on the Redis event channel after a booking
// lifecycle transition commits.
type BookingEvent struct {
	Type           string    `json:"type"` // "request-created", "accepted", "rejected", "cancelled"
	RequestID      string    `json:"requestId"`
	TimeSlotID     string    `json:"timeSlotId"`
	PhotographerID string    `json:"photographerId"`
	CosplayerID    string    `json:"cosplayerId"`
	At             time.Time `json:"at"`
}
