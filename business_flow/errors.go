// Package businessflow contains the core business logic and use cases for campaign simulation workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Campaign-related errors
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignAccessDenied = errors.New("campaign access denied")

	// Target-group-related errors
	ErrTargetGroupNotFound     = errors.New("target group not found")
	ErrTargetGroupAccessDenied = errors.New("target group access denied")

	// Simulation-related errors
	ErrSimulationNotFound     = errors.New("simulation not found")
	ErrSimulationAccessDenied = errors.New("simulation access denied")
	ErrSimulationNotPending   = errors.New("simulation is not pending")
	ErrInvalidPlatform        = errors.New("invalid social platform")
	ErrInvalidPersonaCount    = errors.New("persona count must be between 1 and 100")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsTargetGroupNotFound(err error) bool {
	return errors.Is(err, ErrTargetGroupNotFound)
}

func IsSimulationNotFound(err error) bool {
	return errors.Is(err, ErrSimulationNotFound)
}

func IsSimulationNotPending(err error) bool {
	return errors.Is(err, ErrSimulationNotPending)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsTargetGroupAccessDenied(err error) bool {
	return errors.Is(err, ErrTargetGroupAccessDenied)
}

func IsSimulationAccessDenied(err error) bool {
	return errors.Is(err, ErrSimulationAccessDenied)
}

func IsInvalidPlatform(err error) bool {
	return errors.Is(err, ErrInvalidPlatform)
}

func IsInvalidPersonaCount(err error) bool {
	return errors.Is(err, ErrInvalidPersonaCount)
}

func IsInvalidPagination(err error) bool {
	return errors.Is(err, ErrInvalidPage) || errors.Is(err, ErrInvalidPageSize)
}
