package entity

// BaseResponse is the {success, error} envelope most backend writes return
type BaseResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type SaveConfigRequest struct {
	APIKey string `json:"api_key"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
	WordCount  int    `json:"word_count"`
	Error      string `json:"error,omitempty"`
}

// Transcription is the parsed outcome of /transcribe
type Transcription struct {
	Transcript string
	WordCount  int
}

// EvaluateRequest covers every task family; unused fields are omitted.
// TOEFL tasks send task_number, IELTS tasks send task_type.
type EvaluateRequest struct {
	APIKey             string `json:"api_key"`
	TaskType           string `json:"task_type,omitempty"`
	TaskNumber         int    `json:"task_number,omitempty"`
	Question           string `json:"question"`
	Transcript         string `json:"transcript,omitempty"`
	Text               string `json:"text,omitempty"`
	WordCount          int    `json:"word_count"`
	SpeakingTime       int    `json:"speaking_time,omitempty"`
	Part               int    `json:"part,omitempty"`
	DiagramDescription string `json:"diagram_description,omitempty"`
	EssayType          string `json:"essay_type,omitempty"`
}

type EvaluateResponse struct {
	Feedback   string `json:"feedback,omitempty"`
	Evaluation string `json:"evaluation,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CombinedEvaluationRequest asks for one evaluation across a whole run
type CombinedEvaluationRequest struct {
	APIKey  string
	Results []TaskResult
}

type CreateAudioRequest struct {
	Text string `json:"text"`
}

type CreateAudioResponse struct {
	Audio string `json:"audio"` // base64 mp3
	Error string `json:"error,omitempty"`
}

// VocabularyCard is a flashcard persisted by the backend
type VocabularyCard struct {
	Date     string `json:"date"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Question string `json:"question"`
}

// AudioClip is a finished recording or a downloaded audio file
type AudioClip struct {
	MIMEType string
	Data     []byte
	Filename string
}
