// Package provider holds the remote translation backends: the Google
// Cloud Translation v2 REST API, OpenAI chat models and a scripted mock.
package provider

import "github.com/MrUltraEnder/pagelang"

// Provider is an alias to the main package interface for convenience.
type Provider = pagelang.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = pagelang.TranslateRequest

// Detection is an alias to the main package type.
type Detection = pagelang.Detection
