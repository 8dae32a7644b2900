package model

import "github.com/google/uuid"

type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	IconURL     *string   `json:"icon_url"`
}

// Name is the display name, falling back to the username.
func (u User) Name() string {
	return DisplayName(u.Username, u.DisplayName)
}

func (u User) Author() UserAuthor {
	return NewUserAuthor(u.ID, u.Username, u.DisplayName, u.IconURL)
}

// UserAuthor is the author block rendered with every post. Name is always set.
type UserAuthor struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	IconURL     *string   `json:"icon_url"`
	Name        string    `json:"name"`
}

func NewUserAuthor(id uuid.UUID, username string, displayName, iconURL *string) UserAuthor {
	return UserAuthor{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		IconURL:     iconURL,
		Name:        DisplayName(username, displayName),
	}
}

func DisplayName(username string, displayName *string) string {
	if displayName != nil && *displayName != "" {
		return *displayName
	}
	return username
}
