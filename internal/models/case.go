package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the ingestion pipeline.
const (
	ContextImageAnalysis      = "imageAnalysis"
	ContextAudioTranscription = "audioTranscription"
	ContextImageURLs          = "imageUrls"
	ContextAudioURL           = "audioUrls"
)

// Case is one reporter's submission. Stored in the "users" collection.
type Case struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Contact string             `bson:"contact" json:"contact"`
	Address string             `bson:"address" json:"address"`
	Email   string             `bson:"email" json:"email"`
	Context CaseContext        `bson:"context" json:"context"`
}

// CaseContext is the merged evidence of a submission. Pipeline fields are
// typed; caller supplied context fields are kept inline next to them.
type CaseContext struct {
	ImageAnalysis      *string        `bson:"imageAnalysis" json:"imageAnalysis"`
	AudioTranscription *string        `bson:"audioTranscription" json:"audioTranscription"`
	ImageURLs          []string       `bson:"imageUrls" json:"imageUrls"`
	AudioURL           *string        `bson:"audioUrls" json:"audioUrls"`
	Extra              map[string]any `bson:",inline" json:"-"`
}

// HasEvidence reports whether any evidence was attached to the case.
func (c CaseContext) HasEvidence() bool {
	return (c.ImageAnalysis != nil && *c.ImageAnalysis != "") ||
		(c.AudioTranscription != nil && *c.AudioTranscription != "") ||
		len(c.ImageURLs) > 0 ||
		(c.AudioURL != nil && *c.AudioURL != "")
}

// CaseSummary is the narrowed view of a case for lighter callers.
type CaseSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// MarshalJSON flattens caller fields and pipeline fields into one object.
func (c CaseContext) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}
	imageURLs := c.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	out[ContextImageAnalysis] = c.ImageAnalysis
	out[ContextAudioTranscription] = c.AudioTranscription
	out[ContextImageURLs] = imageURLs
	out[ContextAudioURL] = c.AudioURL
	return json.Marshal(out)
}

// UnmarshalJSON splits a flat context object into pipeline and caller fields.
func (c *CaseContext) UnmarshalJSON(data []byte) error {
	var typed struct {
		ImageAnalysis      *string  `json:"imageAnalysis"`
		AudioTranscription *string  `json:"audioTranscription"`
		ImageURLs          []string `json:"imageUrls"`
		AudioURL           *string  `json:"audioUrls"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var extra map[string]any
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	for _, k := range []string{ContextImageAnalysis, ContextAudioTranscription, ContextImageURLs, ContextAudioURL} {
		delete(extra, k)
	}
	if len(extra) == 0 {
		extra = nil
	}

	*c = CaseContext{
		ImageAnalysis:      typed.ImageAnalysis,
		AudioTranscription: typed.AudioTranscription,
		ImageURLs:          typed.ImageURLs,
		AudioURL:           typed.AudioURL,
		Extra:              extra,
	}
	return nil
}
