// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// File is the metadata record of an uploaded blob.
//
// StoragePath is the locator returned by the storage backend named in
// StorageType. It is opaque: callers hand it back to the backend and never
// build or parse it themselves.
type File struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageType string    `json:"storage_type"`
	StoragePath string    `json:"storage_path"`
	URL         string    `json:"url"`
	FileType    string    `json:"file_type"`
	UploadedBy  string    `json:"uploaded_by"`
	AgentID     *string   `json:"agent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	SchemaVersion int `json:"-"`
}

// TableName returns the name of the database table
// associated with the File model.
func (f File) TableName() string {
	return "files"
}

// FileUpload is the decoded multipart upload.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
	FileType    string
	AgentID     *string
}

// FileFilter narrows a file listing.
type FileFilter struct {
	UploadedBy string
	AgentID    *string
	Page       Page
}
