package model

import "time"

// AnswerSource labels every answer produced by the backend.
const AnswerSource = "Gemini AI with RAG"

// AnswerResponse is returned by the ask endpoint.
type AnswerResponse struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// NewAnswerResponse stamps an answer with the time it was produced, formatted
// as RFC 3339 (an ISO-8601 profile) with sub-second precision.
func NewAnswerResponse(question, answer string, at time.Time) AnswerResponse {
	return AnswerResponse{
		Question:  question,
		Answer:    answer,
		Source:    AnswerSource,
		Timestamp: at.Format(time.RFC3339Nano),
	}
}
