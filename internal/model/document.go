package model

import "time"

// Document is what the document service reports back for an upload: the name it
// filed the content under and the digest it computed or accepted.
type Document struct {
	Filename string `json:"filename"`
	Hash     string `json:"hash"`
}

// Record is the server-side metadata kept for each uploaded file.
// It carries no persistence-specific tags and is shared by every repository.
type Record struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	Hash             string    `json:"hash"`
	StoragePath      string    `json:"storage_path"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"content_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// Document projects r onto the wire shape returned by /upload.
func (r *Record) Document() *Document {
	return &Document{Filename: r.Filename, Hash: r.Hash}
}
