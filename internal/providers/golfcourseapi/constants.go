package golfcourseapi

import "time"

const (
	providerName       = "golfcourseapi"
	defaultBaseURL     = "https://api.golfcourseapi.com"
	searchPath         = "/v1/search"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
