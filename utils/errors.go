package utils

import (
	"errors"
	"fmt"
)

type DriveError struct {
	Code        string
	Description string
	Details     string
}

var knownErrors = Set[string]{}

func NewDriveError(code string, description string) DriveError {
	if knownErrors.Has(code) {
		panic("Duplicate error: " + code)
	}
	knownErrors.Add(code)
	return DriveError{
		Code:        code,
		Description: description,
	}
}

func (err DriveError) Error() string {
	var text = err.Code
	if err.Description != "" {
		text = text + " - " + err.Description
	}
	if err.Details != "" {
		text = text + " : " + err.Details
	}
	return text
}

func (err DriveError) Is(target error) bool {
	var driveErrorTarget DriveError
	if errors.As(target, &driveErrorTarget) {
		return driveErrorTarget.Code == err.Code
	} else {
		return false
	}
}

func (err DriveError) AddDetails(details string) DriveError {
	if err.Details != "" {
		panic("Cannot re-add details to an error")
	}
	newErr := err
	newErr.Details = details
	return newErr
}

// APIError represents a failure of a call to one of the remote gateways.
// A Status of 0 means the request never got a response (transport-level
// failure, Code "NETWORK_ERROR"); any other Status carries the gateway's
// own rejection, with its message in Details.
type APIError struct {
	Status  int
	Url     string
	Method  string
	Code    string
	Details string
	Raw     string
}

func (err APIError) Error() string {
	s := fmt.Sprintf("API Error: status: %d", err.Status)
	if err.Code != "" {
		s += "; code: " + err.Code
	}
	if err.Details != "" {
		s += "; details: " + err.Details
	}
	if err.Url != "" {
		s += "; URL: " + err.Url
	}
	if err.Method != "" {
		s += "; Method: " + err.Method
	}
	if err.Raw != "" {
		s += "; raw: " + err.Raw
	}
	return s
}

func (err APIError) Is(target error) bool {
	var apiErrorTarget APIError
	if errors.As(target, &apiErrorTarget) {
		return apiErrorTarget.Status == err.Status && apiErrorTarget.Code == err.Code
	} else {
		return false
	}
}

// IsNetworkError reports whether err is a transport-level failure, as
// opposed to a rejection the gateway actually responded with.
func IsNetworkError(err error) bool {
	var apiError APIError
	if errors.As(err, &apiError) {
		return apiError.Status == 0
	}
	return false
}
