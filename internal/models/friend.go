package models

import (
	"gorm.io/gorm"
)

// Friendship status values. Only accepted friendships count toward
// event delivery.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusRejected = "rejected"
)

// Friend represents a friendship between two users. The requester/recipient
// roles matter for the request workflow; an accepted friendship is symmetric.
type Friend struct {
	gorm.Model
	RequesterID uint   `gorm:"not null;uniqueIndex:idx_friends_pair" json:"requesterId"`
	RecipientID uint   `gorm:"not null;uniqueIndex:idx_friends_pair" json:"recipientId"`
	Status      string `gorm:"not null;type:varchar(16);default:'pending'" json:"status"`

	Requester User `gorm:"foreignKey:RequesterID;references:ID" json:"requester"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID" json:"recipient"`
}

// FriendResponse represents the friend data returned to the client
type FriendResponse struct {
	FriendshipID uint   `json:"friendshipId"`
	UserID       uint   `json:"userId"`
	UUID         string `json:"uuid"`
	Username     string `json:"username"`
	Status       string `json:"status"`
}

type FriendRequestInput struct {
	RecipientID uint `json:"recipientId" binding:"required"`
}
