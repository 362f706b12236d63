package sdk

import (
	"encoding/json"
	"github.com/driveclone/go-drive-sdk/api_helper"
	"github.com/driveclone/go-drive-sdk/common_models"
	"github.com/ztrue/tracerr"
)

type driveApiClientInterface interface {
	setAuthToken(token string)
	clear()
	signUp(request *signUpRequest) (*signUpResponse, error)
	logIn(request *logInRequest) (*logInResponse, error)
	changePassword(request *changePasswordRequest) (*statusResponse, error)
	uploadFile(request *uploadFileRequest) (*uploadFileResponse, error)
	findUsers(*emptyInterface) (*findUsersResponse, error)
	createUser(request *createUserRequest) (*createUserResponse, error)
}

type emptyInterface struct{}

type statusResponse struct {
	Message string `json:"message"`
}

type driveApiClient struct {
	api_helper.ApiClient
}

func (apiClient *driveApiClient) setAuthToken(token string) {
	apiClient.AuthToken = token
}

func (apiClient *driveApiClient) clear() {
	apiClient.AuthToken = ""
}

type serializedIdentity struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
}

func (user serializedIdentity) toIdentity() common_models.Identity {
	return common_models.Identity{
		Id:          user.Id,
		Email:       user.Email,
		DisplayName: user.Name,
		Age:         user.Age,
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type serializedAuth struct {
	Token string             `json:"token"`
	User  serializedIdentity `json:"user"`
}

type signUpResponse struct {
	Auth serializedAuth `json:"auth"`
}

func (apiClient *driveApiClient) signUp(request *signUpRequest) (*signUpResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	responseBody, err := apiClient.MakeRequest(
		"POST",
		"/signup",
		requestBody,
		nil,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result signUpResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logInResponse struct {
	Token string             `json:"token"`
	User  serializedIdentity `json:"user"`
}

func (apiClient *driveApiClient) logIn(request *logInRequest) (*logInResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	responseBody, err := apiClient.MakeRequest(
		"POST",
		"/login",
		requestBody,
		nil,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result logInResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (apiClient *driveApiClient) changePassword(request *changePasswordRequest) (*statusResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	responseBody, err := apiClient.MakeRequest(
		"PATCH",
		"/change-password",
		requestBody,
		nil,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result statusResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}

type uploadFileRequest struct {
	FileName    string
	FileContent []byte
}

type uploadFileResponse struct {
	Message string `json:"message"`
}

func (apiClient *driveApiClient) uploadFile(request *uploadFileRequest) (*uploadFileResponse, error) {
	responseBody, err := apiClient.MakeMultipartRequest(
		"POST",
		"/upload-file",
		"file",
		request.FileName,
		request.FileContent,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result uploadFileResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}

type findUsersResponse struct {
	Users []serializedIdentity
}

// The directory endpoint responds with a bare JSON array.
func (response *findUsersResponse) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &response.Users)
}

func (apiClient *driveApiClient) findUsers(*emptyInterface) (*findUsersResponse, error) {
	responseBody, err := apiClient.MakeRequest(
		"GET",
		"/find-users",
		nil,
		nil,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result findUsersResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}

type createUserRequest struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type createUserResponse struct {
	User serializedIdentity `json:"user"`
}

func (apiClient *driveApiClient) createUser(request *createUserRequest) (*createUserResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	responseBody, err := apiClient.MakeRequest(
		"POST",
		"/users",
		requestBody,
		nil,
	)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	var result createUserResponse
	err = json.Unmarshal(responseBody, &result)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	return &result, nil
}
