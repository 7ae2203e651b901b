package models

import "time"

// Document archives the original uploaded file for a profile: object path in
// blob storage plus the extracted text that normalization was run against.
// Stored in mongo, keyed by profile_id.
type Document struct {
	ProfileID  string    `bson:"profile_id" json:"profile_id"`
	ObjectPath string    `bson:"object_path" json:"object_path"`
	FileName   string    `bson:"file_name" json:"file_name"`
	MimeType   string    `bson:"mime_type" json:"mime_type"`
	SizeBytes  int64     `bson:"size_bytes" json:"size_bytes"`
	RawText    string    `bson:"raw_text" json:"raw_text"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
