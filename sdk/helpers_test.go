package sdk

import (
	"encoding/json"
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"time"
)

// Tests never reach the network: every gateway call goes through the
// canary client with an override set. The ApiURL below points nowhere on
// purpose, so a missing override fails fast instead of silently calling
// out.
const unreachableApiURL = "http://127.0.0.1:1"

func getInMemoryInitializeOptions(instanceName string) *InitializeOptions {
	return &InitializeOptions{
		ApiURL:       unreachableApiURL,
		Database:     &MemoryStorage{},
		LogLevel:     zerolog.InfoLevel,
		InstanceName: instanceName,
	}
}

// newTestSdk initializes an in-memory SDK instance and swaps its api
// client for a canary, so tests can inject gateway responses.
func newTestSdk(instanceName string) (*State, *canaryDriveApiClient, error) {
	sdk, err := Initialize(getInMemoryInitializeOptions(instanceName))
	if err != nil {
		return nil, nil, err
	}
	canaryApi := newCanaryDriveApiClient(sdk.apiClient)
	sdk.apiClient = canaryApi
	return sdk, canaryApi, nil
}

func makeTestAuthToken(expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "test-user",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	return token.SignedString([]byte("test-secret"))
}

func signUpResponseBody(id string, email string, name string, token string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"auth": map[string]any{
			"token": token,
			"user":  map[string]any{"id": id, "email": email, "name": name},
		},
	})
}

func logInResponseBody(id string, email string, name string, token string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"token": token,
		"user":  map[string]any{"id": id, "email": email, "name": name},
	})
}

func rejectedError(status int, message string) error {
	return utils.APIError{Status: status, Code: "REJECTED", Details: message}
}

func networkError(message string) error {
	return utils.APIError{Status: 0, Code: "NETWORK_ERROR", Details: message}
}
