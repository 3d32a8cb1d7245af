package model

// User is the authenticated customer profile as returned by the back end.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
}

// Session is the persisted authentication state. Both a non-empty token and a
// user record are required for the session to count as authenticated.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Authenticated reports whether the session holds both a token and a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// AuthResult is the result payload of login/register/refresh responses.
type AuthResult struct {
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user"`
}
