package entity

import "github.com/google/uuid"

// VideoProcessingMessage is the inbound message from the angles.processing queue.
type VideoProcessingMessage struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    string    `json:"user_id"`
	VideoKey  string    `json:"video_key"`
	FileSize  int64     `json:"file_size"`
	UserEmail string    `json:"user_email"`
}

// VideoStatusMessage is the outbound message published to the angles.status queue.
type VideoStatusMessage struct {
	JobID           uuid.UUID `json:"job_id"`
	UserID          string    `json:"user_id"`
	Status          JobStatus `json:"status"`
	VideoKey        string    `json:"video_key"`
	ResultVideoKey  string    `json:"result_video_key,omitempty"`
	AngleLogKey     string    `json:"angle_log_key,omitempty"`
	FramesRead      int       `json:"frames_read,omitempty"`
	FramesWithAngle int       `json:"frames_with_angle,omitempty"`
	Duration        float64   `json:"duration_seconds,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	Attempt         int       `json:"attempt"`
	MaxAttempts     int       `json:"max_attempts"`
}
