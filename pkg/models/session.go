package models

// Profile holds the optional profile attributes attached to a session.
type Profile struct {
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Image   string `json:"image,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Session is the record of the currently signed-in user. A session is
// either fully present (ID and Email set) or absent; partial sessions
// never escape the session store.
type Session struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

// IsAdmin reports whether the session belongs to a back-office user.
func (s *Session) IsAdmin() bool {
	return s.Profile.Type == "admin"
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
