package user

// FriendStatus is the state of a friendship edge.
type FriendStatus string

const (
	StatusPending  FriendStatus = "pending"
	StatusAccepted FriendStatus = "accepted"
)

type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	HandleName  string `json:"handleName,omitempty"`
	Email       string `json:"email,omitempty"`
	ProfileIcon string `json:"profileIcon,omitempty"`

	// FriendRequested is set on suggestions the current user already asked to befriend.
	FriendRequested bool `json:"friendRequested,omitempty"`
}

// DisplayName is "First Last", falling back to the handle.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.HandleName
	}
	return name
}

// Friend ties a user to the friendship document that links them to the caller.
type Friend struct {
	ID     string       `json:"id"`
	Status FriendStatus `json:"status,omitempty"`
	User   User         `json:"user"`
}

// FriendList is one page of friends or pending requests.
type FriendList struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
	Users []Friend `json:"users"`
}

// SuggestionList is one page of suggested friends.
type SuggestionList struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
	Users []User `json:"users"`
}
