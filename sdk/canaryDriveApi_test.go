package sdk

import (
	"encoding/json"
	"github.com/ztrue/tracerr"
)

func newCanaryDriveApiClient(client driveApiClientInterface) *canaryDriveApiClient {
	return &canaryDriveApiClient{Client: client, ToExecute: make(map[string]func(any) ([]byte, error)), Counter: make(map[string]int)}
}

func executeDriveApiCanary[U any](c *canaryDriveApiClient, funcName string, request interface{}) (*U, error) {
	c.Counter[funcName] += 1
	if c.ToExecute[funcName] != nil {
		res, err := c.ToExecute[funcName](request)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		if res != nil {
			var response U
			err = json.Unmarshal(res, &response)
			if err != nil {
				return nil, tracerr.Wrap(err)
			}
			return &response, nil
		}
	}
	return nil, nil
}

type canaryDriveApiClient struct {
	Client    driveApiClientInterface
	ToExecute map[string]func(request any) ([]byte, error)
	Counter   map[string]int
}

func (c *canaryDriveApiClient) setAuthToken(token string) {
	c.Counter["setAuthToken"] += 1
	c.Client.setAuthToken(token)
}

func (c *canaryDriveApiClient) clear() {
	c.Counter["clear"] += 1
	c.Client.clear()
}

func (c *canaryDriveApiClient) signUp(request *signUpRequest) (*signUpResponse, error) {
	res, err := executeDriveApiCanary[signUpResponse](c, "signUp", request)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.signUp(request)
}

func (c *canaryDriveApiClient) logIn(request *logInRequest) (*logInResponse, error) {
	res, err := executeDriveApiCanary[logInResponse](c, "logIn", request)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.logIn(request)
}

func (c *canaryDriveApiClient) changePassword(request *changePasswordRequest) (*statusResponse, error) {
	res, err := executeDriveApiCanary[statusResponse](c, "changePassword", request)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.changePassword(request)
}

func (c *canaryDriveApiClient) uploadFile(request *uploadFileRequest) (*uploadFileResponse, error) {
	res, err := executeDriveApiCanary[uploadFileResponse](c, "uploadFile", request)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.uploadFile(request)
}

func (c *canaryDriveApiClient) findUsers(_ *emptyInterface) (*findUsersResponse, error) {
	res, err := executeDriveApiCanary[findUsersResponse](c, "findUsers", nil)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.findUsers(nil)
}

func (c *canaryDriveApiClient) createUser(request *createUserRequest) (*createUserResponse, error) {
	res, err := executeDriveApiCanary[createUserResponse](c, "createUser", request)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return c.Client.createUser(request)
}
