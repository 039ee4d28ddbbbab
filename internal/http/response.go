package http

import "greenstore/pkg/greenspace"

type Status string

const (
	// StatusOK is used for health-check responses.
	StatusOK Status = "OK"

	// StatusSuccess indicates an operation completed successfully.
	StatusSuccess Status = "success"

	// StatusError indicates an operation failed.
	StatusError Status = "error"
)

// Response represents the standard API response format.
type Response struct {
	Status Status             `json:"status,omitempty"`
	Space  *greenspace.Space  `json:"space,omitempty"`
	Spaces []greenspace.Space `json:"spaces,omitempty"`
	Count  *uint64            `json:"count,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func NewOKResponse() Response {
	return Response{Status: StatusOK}
}

func NewSpaceResponse(space greenspace.Space) Response {
	return Response{Status: StatusSuccess, Space: &space}
}

func NewSpacesResponse(spaces []greenspace.Space) Response {
	return Response{Status: StatusSuccess, Spaces: spaces}
}

func NewCountResponse(count uint64) Response {
	return Response{Status: StatusSuccess, Count: &count}
}

func NewErrorResponse(err string) Response {
	return Response{Status: StatusError, Error: err}
}
