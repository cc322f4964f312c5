package pipeline

import (
	"encoding/json"
)

// Extraction is the result of the simple OCR and translate path.
type Extraction struct {
	OCRText        string `json:"ocr_text"`
	TranslatedText string `json:"translated_text"`
}

type InferRequest struct {
	Image string `json:"image_b64"`

	Language       string `json:"language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
}

type TextLine struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`

	Box     [4]float64   `json:"bbox"`
	Polygon [][2]float64 `json:"polygon"`

	Confidence float64 `json:"confidence,omitempty"`
}

type Page struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Lines []TextLine `json:"lines"`
}

// Result is the envelope returned by Infer. Callers branch on Success.
type Result struct {
	Success bool

	Text           string
	TranslatedText string

	Pages []Page

	Error string

	ProcessingTime float64
}

type successResult struct {
	Success bool `json:"success"`

	Text           string `json:"text"`
	TranslatedText string `json:"translated_text"`

	Pages []Page `json:"pages"`

	ProcessingTime float64 `json:"processing_time"`
}

type failureResult struct {
	Success bool `json:"success"`

	Error string `json:"error"`

	ProcessingTime float64 `json:"processing_time"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureResult{
			Success: false,
			Error:   r.Error,

			ProcessingTime: r.ProcessingTime,
		})
	}

	pages := r.Pages

	if pages == nil {
		pages = []Page{}
	}

	return json.Marshal(successResult{
		Success: true,

		Text:           r.Text,
		TranslatedText: r.TranslatedText,

		Pages: pages,

		ProcessingTime: r.ProcessingTime,
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var value struct {
		Success bool `json:"success"`

		Text           string `json:"text"`
		TranslatedText string `json:"translated_text"`

		Pages []Page `json:"pages"`

		Error string `json:"error"`

		ProcessingTime float64 `json:"processing_time"`
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	*r = Result{
		Success: value.Success,

		Text:           value.Text,
		TranslatedText: value.TranslatedText,

		Pages: value.Pages,

		Error: value.Error,

		ProcessingTime: value.ProcessingTime,
	}

	return nil
}
