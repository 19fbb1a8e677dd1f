package dto

import "encoding/json"

type ProcessImageRequest struct {
	Image    string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQ..."`
	Language string `json:"language,omitempty" example:"French"`
	Context  string `json:"context,omitempty" example:"describe"`
}

type ProcessImageResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

type SpeechRequest struct {
	Text  string `json:"text" example:"Bonjour"`
	Voice string `json:"voice,omitempty" example:"ff_siwis"`
}

type StatusResponse struct {
	Status string `json:"status" example:"healthy"`
}
