package sdk

import (
	"github.com/driveclone/go-drive-sdk/common_models"
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/ztrue/tracerr"
)

var (
	// ErrorDirectoryUserMissingFields is returned when creating a directory user without a name or a valid age
	ErrorDirectoryUserMissingFields = utils.NewDriveError("DIRECTORY_USER_MISSING_FIELDS", "name and age are required")
)

// ListUsers retrieves the user directory from the directory gateway.
func (state *State) ListUsers() ([]common_models.Identity, error) {
	err := state.checkSdkOpen()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	response, err := state.apiClient.findUsers(nil)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	return utils.SliceMap(response.Users, serializedIdentity.toIdentity), nil
}

// CreateDirectoryUser registers a new user record with the directory
// gateway. Name must be non-empty and age positive.
func (state *State) CreateDirectoryUser(name string, age int) (*common_models.Identity, error) {
	err := state.checkSdkOpen()
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if name == "" || age <= 0 {
		return nil, tracerr.Wrap(ErrorDirectoryUserMissingFields)
	}

	response, err := state.apiClient.createUser(&createUserRequest{Name: name, Age: age})
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	identity := response.User.toIdentity()
	state.logger.Info().Str("userId", identity.Id).Msg("Directory user created")
	return &identity, nil
}
