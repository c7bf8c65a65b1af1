package vtubestudio

import "encoding/json"

const (
	apiName    = "VTubeStudioPublicAPI"
	apiVersion = "1.0"

	msgTokenRequest  = "AuthenticationTokenRequest"
	msgAuthRequest   = "AuthenticationRequest"
	msgHotkeyTrigger = "HotkeyTriggerRequest"
	msgAPIError      = "APIError"
)

type envelope struct {
	APIName     string          `json:"apiName"`
	APIVersion  string          `json:"apiVersion"`
	RequestID   string          `json:"requestID"`
	MessageType string          `json:"messageType"`
	Data        json.RawMessage `json:"data,omitempty"`
}

type tokenRequest struct {
	PluginName      string `json:"pluginName"`
	PluginDeveloper string `json:"pluginDeveloper"`
}

type tokenResponse struct {
	AuthenticationToken string `json:"authenticationToken"`
}

type authRequest struct {
	PluginName          string `json:"pluginName"`
	PluginDeveloper     string `json:"pluginDeveloper"`
	AuthenticationToken string `json:"authenticationToken"`
}

type authResponse struct {
	Authenticated bool   `json:"authenticated"`
	Reason        string `json:"reason"`
}

type hotkeyRequest struct {
	HotkeyID string `json:"hotkeyID"`
}

type apiError struct {
	ErrorID int    `json:"errorID"`
	Message string `json:"message"`
}
