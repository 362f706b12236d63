package sdk

import (
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ztrue/tracerr"
	"time"
)

var (
	// ErrorInvalidEmail is returned when the given email address is not a valid address
	ErrorInvalidEmail = utils.NewDriveError("INVALID_EMAIL", "not a valid email address")
)

// AccountInfo is returned when calling State.SignUp, State.LogIn or
// State.GetCurrentAccountInfo, containing information about the current
// session identity.
type AccountInfo struct {
	// UserId is the ID of the current user for this SDK instance.
	UserId string
	// Email is the address the account was created with.
	Email string
	// DisplayName is the optional human-readable name of the account.
	DisplayName string
	// TokenExpires is the expiry of the auth token issued by the account
	// gateway. `nil` if the gateway issued no token, or one without an
	// expiry claim.
	TokenExpires *time.Time
}

// parseTokenExpiry extracts the expiry claim from the auth token, without
// verifying the signature: the token is opaque server-side state, the SDK
// only surfaces when it will lapse.
func (state *State) parseTokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		state.logger.Debug().Msg("Auth token is not a parsable JWT: " + err.Error())
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	expires := claims.ExpiresAt.Time
	return &expires
}

func (state *State) setAuthenticated(token string, accountIdentity currentIdentity) (*AccountInfo, error) {
	state.storage.currentIdentity.set(accountIdentity)
	state.apiClient.setAuthToken(token)

	err := state.saveCurrentIdentity()
	if err != nil {
		state.storage.currentIdentity.set(currentIdentity{})
		state.apiClient.clear()
		return nil, tracerr.Wrap(err)
	}

	return &AccountInfo{
		UserId:       accountIdentity.Identity.Id,
		Email:        accountIdentity.Identity.Email,
		DisplayName:  accountIdentity.Identity.DisplayName,
		TokenExpires: accountIdentity.TokenExpires,
	}, nil
}

// SignUp creates a new account on the account gateway and authenticates
// the session with it. It can only be called while the session is
// anonymous.
//
// Callers are expected to serialize auth calls at the UI level (disable
// the trigger while one is outstanding); the SDK does not queue them.
func (state *State) SignUp(email string, password string) (*AccountInfo, error) {
	state.locks.currentIdentityLock.Lock()
	defer state.locks.currentIdentityLock.Unlock()
	err := state.checkSdkState(false)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if !utils.IsEmail(email) {
		return nil, tracerr.Wrap(ErrorInvalidEmail.AddDetails(email))
	}
	state.logger.Debug().Str("email", email).Msg("Signing up...")

	response, err := state.apiClient.signUp(&signUpRequest{Email: email, Password: password})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	accountInfo, err := state.setAuthenticated(response.Auth.Token, currentIdentity{
		Identity:     response.Auth.User.toIdentity(),
		AuthToken:    response.Auth.Token,
		TokenExpires: state.parseTokenExpiry(response.Auth.Token),
	})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	state.logger.Info().Str("userId", accountInfo.UserId).Msg("Signed up")
	return accountInfo, nil
}

// LogIn authenticates the session against an existing account. It can
// only be called while the session is anonymous.
//
// Callers are expected to serialize auth calls at the UI level (disable
// the trigger while one is outstanding); the SDK does not queue them.
func (state *State) LogIn(email string, password string) (*AccountInfo, error) {
	state.locks.currentIdentityLock.Lock()
	defer state.locks.currentIdentityLock.Unlock()
	err := state.checkSdkState(false)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if !utils.IsEmail(email) {
		return nil, tracerr.Wrap(ErrorInvalidEmail.AddDetails(email))
	}
	state.logger.Debug().Str("email", email).Msg("Logging in...")

	response, err := state.apiClient.logIn(&logInRequest{Email: email, Password: password})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	accountInfo, err := state.setAuthenticated(response.Token, currentIdentity{
		Identity:     response.User.toIdentity(),
		AuthToken:    response.Token,
		TokenExpires: state.parseTokenExpiry(response.Token),
	})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	state.logger.Info().Str("userId", accountInfo.UserId).Msg("Logged in")
	return accountInfo, nil
}

// ChangePassword rotates the account's credential on the account gateway.
// The gateway validates by email and current password, not by the local
// session, so this can be called from an anonymous session too. The
// session state and identity are unchanged either way.
func (state *State) ChangePassword(email string, currentPassword string, newPassword string) error {
	err := state.checkSdkOpen()
	if err != nil {
		return tracerr.Wrap(err)
	}
	state.logger.Debug().Str("email", email).Msg("Changing password...")

	_, err = state.apiClient.changePassword(&changePasswordRequest{
		Email:           email,
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return tracerr.Wrap(err)
	}

	state.logger.Info().Str("email", email).Msg("Password changed")
	return nil
}

// LogOut unconditionally transitions the session to anonymous: it clears
// the in-memory identity, removes the persisted one, and clears the
// selection. The file catalog is left as-is.
func (state *State) LogOut() error {
	state.locks.currentIdentityLock.Lock()
	defer state.locks.currentIdentityLock.Unlock()
	err := state.checkSdkOpen()
	if err != nil {
		return tracerr.Wrap(err)
	}

	previous := state.storage.currentIdentity.get()
	state.storage.currentIdentity.set(currentIdentity{})
	err = state.saveCurrentIdentity()
	if err != nil {
		// keep memory and persistence in agreement, otherwise the next
		// restore would silently re-authenticate a logged-out session
		state.storage.currentIdentity.set(previous)
		return tracerr.Wrap(err)
	}

	state.apiClient.clear()
	state.storage.selection.clear()

	state.logger.Info().Msg("Logged out")
	return nil
}

// GetCurrentAccountInfo returns information about the current session
// identity, or nil if the session is anonymous.
func (state *State) GetCurrentAccountInfo() *AccountInfo {
	state.locks.currentIdentityLock.RLock()
	defer state.locks.currentIdentityLock.RUnlock()
	record := state.storage.currentIdentity.get()
	if record.isAnonymous() {
		return nil
	}
	return &AccountInfo{
		UserId:       record.Identity.Id,
		Email:        record.Identity.Email,
		DisplayName:  record.Identity.DisplayName,
		TokenExpires: record.TokenExpires,
	}
}
