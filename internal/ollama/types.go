// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import "net/url"

// =============================================================================
// WIRE TYPES
// =============================================================================

// GenerateRequest is the request body for the generate API.
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// GenerateResponse is the subset of the generate API response we consume.
// Decoding goes through raw JSON first (see Client.Generate) so that a
// missing field is distinguishable from an empty one; this struct documents
// the shape and serves test fixtures.
type GenerateResponse struct {
	Model    string `json:"model,omitempty"`
	Response string `json:"response"`
	Done     bool   `json:"done,omitempty"`
}

// endpointOrigin reduces a full endpoint URL to its scheme://host origin.
func endpointOrigin(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}
