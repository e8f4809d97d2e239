package profile

// UpdateMeRequest is the self-service profile edit. Role and balance are not editable here.
type UpdateMeRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,notblank,max=200"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

// AdminUpdateRequest is an admin edit of another profile.
type AdminUpdateRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,notblank,max=200"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=2048"`
	Role      *string `json:"role" validate:"omitempty,role"`
}

// UpdateFields lists columns to change; nil leaves a column as is.
type UpdateFields struct {
	FullName  *string
	AvatarURL *string
	Role      *Role
}

// ListFilter drives the admin user list.
type ListFilter struct {
	Search string // email or full name
	Role   Role
	Page   int
	Limit  int
}
