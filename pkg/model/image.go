package model

import "time"

// ImageFile is the GridFS metadata of an uploaded hotel image.
type ImageFile struct {
	ID          string    `json:"id"`
	HotelID     string    `json:"hotel_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
