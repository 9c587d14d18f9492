package handler

import "errors"

const (
	// APIPrefix is the mount point of the admin API.
	APIPrefix = "/api/admin"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ParamID is the name of the id path parameter.
	ParamID = "id"

	// PathID is the id path segment.
	PathID = "/:" + ParamID

	// ErrNilACDFatalLogMsg is used if router or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or db is nil"
)

// ErrNilACD is returned by Init when router, cfg or db is nil.
var ErrNilACD = errors.New(ErrNilACDFatalLogMsg)
