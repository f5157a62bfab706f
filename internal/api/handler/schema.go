package handler

// errorResponse is the failure envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Request types ---

// loginRequest is not validated by tags: blank credentials are rejected by
// the session manager itself so every caller sees the same error.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Name     string `json:"name"     validate:"max=128"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=128"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// --- Response types ---

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	Session         *userResponse `json:"session"`
	IsAuthenticated bool          `json:"is_authenticated"`
	IsLoading       bool          `json:"is_loading"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Token   string        `json:"token,omitempty"`
	Session *userResponse `json:"session,omitempty"`
}

type viewResponse struct {
	View    string            `json:"view"`
	Section string            `json:"section"`
	Path    string            `json:"path"`
	Params  map[string]string `json:"params,omitempty"`
	User    *userResponse     `json:"user"`
}

type clientSessionResponse struct {
	ClientID string        `json:"client_id"`
	State    string        `json:"state"`
	User     *userResponse `json:"user,omitempty"`
}

type clientListResponse struct {
	Total   int                     `json:"total"`
	Clients []clientSessionResponse `json:"clients"`
}
