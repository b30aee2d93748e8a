package model

// PredictionRequest asks for likely questions of an upcoming paper.
type PredictionRequest struct {
	ExamType       string `json:"exam_type" binding:"required,max=100"`
	Subject        string `json:"subject" binding:"required,max=100"`
	HistoricalData string `json:"historical_data" binding:"required,max=20000"`
}

// PredictionResponse is the model's answer.
type PredictionResponse struct {
	PredictedQuestions string `json:"predicted_questions"`
	Rationale          string `json:"rationale"`
}
