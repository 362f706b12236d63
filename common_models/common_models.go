package common_models

// Identity represents an authenticated principal, as returned by the
// account gateway and as listed by the directory gateway.
type Identity struct {
	// Id is the unique identifier the account service assigned to this user.
	Id string `json:"id" bson:"id"`
	// Email is the address the user authenticates with.
	Email string `json:"email" bson:"email"`
	// DisplayName is an optional human-readable name. Optional.
	DisplayName string `json:"name,omitempty" bson:"displayName,omitempty"`
	// Age is only populated for entries coming from the directory gateway. Optional.
	Age int `json:"age,omitempty" bson:"age,omitempty"`
}

// DisplayLabel returns the label to show for this identity: the display
// name when one is set, the email otherwise.
func (identity Identity) DisplayLabel() string {
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	return identity.Email
}
