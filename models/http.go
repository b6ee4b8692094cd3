// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MaxPageLimit caps the limit query parameter of every listing.
const MaxPageLimit = 100

// Page is an offset pagination window.
type Page struct {
	Skip  uint64
	Limit uint64
}

// AgentFilter narrows an agent listing.
type AgentFilter struct {
	// CreatedBy restricts to one owner when non-empty.
	CreatedBy string
	// PublishedOnly restricts to public, active and approved agents.
	PublishedOnly bool
	Page          Page
}
