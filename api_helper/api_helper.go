package api_helper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/driveclone/go-drive-sdk/utils"
	"github.com/rs/zerolog"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

type ApiClient struct {
	client       *http.Client
	ApiURL       string
	AuthToken    string
	ExtraHeaders []Header
	Logger       zerolog.Logger
}

type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e serverError) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type Header struct {
	Name  string
	Value string
}

func NewApiClient(apiUrl string, extraHeaders []Header, logger zerolog.Logger) *ApiClient {
	var url string
	if strings.HasSuffix(apiUrl, "/") {
		url = apiUrl[:len(apiUrl)-1]
	} else {
		url = apiUrl
	}

	return &ApiClient{
		client:       &http.Client{},
		ApiURL:       url,
		AuthToken:    "",
		ExtraHeaders: extraHeaders,
		Logger:       logger,
	}
}

func (apiClient *ApiClient) doRequest(req *http.Request) ([]byte, error) {
	if apiClient.client == nil {
		apiClient.client = &http.Client{}
	}

	req.Header.Add("Accept", "application/json")

	for i := 0; i < len(apiClient.ExtraHeaders); i++ {
		req.Header.Add(apiClient.ExtraHeaders[i].Name, apiClient.ExtraHeaders[i].Value)
	}

	if apiClient.AuthToken != "" {
		req.Header.Add("Authorization", "Bearer "+apiClient.AuthToken)
	}

	apiClient.Logger.Debug().Msg("API call: " + req.Method + " " + req.URL.String())
	resp, err := apiClient.client.Do(req)
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "NETWORK_ERROR", Details: err.Error(), Method: req.Method, Url: req.URL.String()}
	}

	defer func(Body io.ReadCloser) {
		closeErr := Body.Close()
		if closeErr != nil {
			apiClient.Logger.Warn().Msg("Failed to close response body: " + closeErr.Error())
		}
	}(resp.Body)

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "RESPONSE_READER_ERROR", Details: err.Error(), Method: req.Method, Url: req.URL.String()}
	}

	apiClient.Logger.Debug().Msg(fmt.Sprintf("Received response to %s %s, status code: %d", req.Method, req.URL.String(), resp.StatusCode))
	apiClient.Logger.Trace().Msg(fmt.Sprintf("Response body: %s", responseBody))
	// success is the whole 2xx class, not one canonical status
	if resp.StatusCode/100 != 2 {
		var responseServerError serverError
		err = json.Unmarshal(responseBody, &responseServerError)
		if err != nil || responseServerError.text() == "" {
			return nil, utils.APIError{Status: resp.StatusCode, Code: "UNKNOWN", Raw: string(responseBody), Method: req.Method, Url: req.URL.String()}
		} else {
			return nil, utils.APIError{
				Status:  resp.StatusCode,
				Code:    "REJECTED",
				Details: responseServerError.text(),
				Url:     req.URL.String(),
				Method:  req.Method,
				Raw:     string(responseBody),
			}
		}
	}

	return responseBody, nil
}

func (apiClient *ApiClient) MakeRequest(method string, url string, requestBody []byte, headers []Header) ([]byte, error) {
	var req *http.Request
	var err error
	if requestBody != nil {
		data := bytes.NewBuffer(requestBody)
		req, err = http.NewRequest(method, apiClient.ApiURL+url, data)
	} else {
		req, err = http.NewRequest(method, apiClient.ApiURL+url, nil) // cannot use a typed `nil`, otherwise it panics...
	}
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "REQUEST_ERROR", Details: err.Error(), Method: method, Url: apiClient.ApiURL + url}
	}

	req.Header.Add("Content-Type", "application/json")

	for i := 0; i < len(headers); i++ {
		req.Header.Add(headers[i].Name, headers[i].Value)
	}

	apiClient.Logger.Trace().Msg(fmt.Sprintf("Request body: %s", requestBody))
	return apiClient.doRequest(req)
}

// MakeMultipartRequest sends fileContent as a multipart form upload under
// the given field name.
func (apiClient *ApiClient) MakeMultipartRequest(method string, url string, fieldName string, fileName string, fileContent []byte) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "REQUEST_ERROR", Details: err.Error(), Method: method, Url: apiClient.ApiURL + url}
	}
	_, err = part.Write(fileContent)
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "REQUEST_ERROR", Details: err.Error(), Method: method, Url: apiClient.ApiURL + url}
	}
	err = writer.Close()
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "REQUEST_ERROR", Details: err.Error(), Method: method, Url: apiClient.ApiURL + url}
	}

	req, err := http.NewRequest(method, apiClient.ApiURL+url, &body)
	if err != nil {
		return nil, utils.APIError{Status: 0, Code: "REQUEST_ERROR", Details: err.Error(), Method: method, Url: apiClient.ApiURL + url}
	}
	req.Header.Add("Content-Type", writer.FormDataContentType())

	apiClient.Logger.Trace().Msg(fmt.Sprintf("Multipart upload of %s (%d bytes)", fileName, len(fileContent)))
	return apiClient.doRequest(req)
}
