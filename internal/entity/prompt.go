package entity

// Prompt is a stored exam question or passage. Fields are a union over all
// task kinds; each collection only fills the ones it uses.
type Prompt struct {
	ID                 int      `json:"id" yaml:"id,omitempty"`
	Part               int      `json:"part,omitempty" yaml:"part,omitempty"`
	Question           string   `json:"question,omitempty" yaml:"question,omitempty"`
	Topic              string   `json:"topic,omitempty" yaml:"topic,omitempty"`
	Reading            string   `json:"reading,omitempty" yaml:"reading,omitempty"`
	AudioFile          string   `json:"audio_file,omitempty" yaml:"audio_file,omitempty"`
	Notes              string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	DiagramFile        string   `json:"diagram_file,omitempty" yaml:"diagram_file,omitempty"`
	DiagramDescription string   `json:"diagram_description,omitempty" yaml:"diagram_description,omitempty"`
	EssayType          string   `json:"essay_type,omitempty" yaml:"essay_type,omitempty"`
	ProfessorQuestion  string   `json:"professor_question,omitempty" yaml:"professor_question,omitempty"`
	StudentPosts       []string `json:"student_posts,omitempty" yaml:"student_posts,omitempty"`
}

// PromptFields is the create/update payload. AudioFile is a pointer so an
// explicit null clears the attachment.
type PromptFields struct {
	Part               int      `json:"part,omitempty" yaml:"part,omitempty"`
	Question           string   `json:"question" yaml:"question,omitempty"`
	Topic              string   `json:"topic,omitempty" yaml:"topic,omitempty"`
	Reading            string   `json:"reading,omitempty" yaml:"reading,omitempty"`
	AudioFile          *string  `json:"audio_file" yaml:"audio_file,omitempty"`
	Notes              string   `json:"notes" yaml:"notes,omitempty"`
	DiagramFile        *string  `json:"diagram_file,omitempty" yaml:"diagram_file,omitempty"`
	DiagramDescription string   `json:"diagram_description,omitempty" yaml:"diagram_description,omitempty"`
	EssayType          string   `json:"essay_type,omitempty" yaml:"essay_type,omitempty"`
	ProfessorQuestion  string   `json:"professor_question,omitempty" yaml:"professor_question,omitempty"`
	StudentPosts       []string `json:"student_posts,omitempty" yaml:"student_posts,omitempty"`
}

// QuestionText is what the task shows as its question and sends to evaluation
func (p *Prompt) QuestionText(kind TaskKind) string {
	switch kind {
	case TaskTOEFL2, TaskTOEFL3, TaskTOEFL5:
		if p.Question != "" {
			return p.Question
		}
		return p.Reading
	case TaskTOEFL4:
		if p.Question != "" {
			return p.Question
		}
		return "Lecture Summary"
	case TaskTOEFL6:
		return p.ProfessorQuestion
	case TaskSpeakingPart2:
		if p.Topic != "" {
			return p.Topic + "\n" + p.Question
		}
		return p.Question
	default:
		return p.Question
	}
}

// Preview is a one-line summary for selection lists
func (p *Prompt) Preview(max int) string {
	text := p.Question
	switch {
	case p.Reading != "":
		text = p.Reading
	case p.ProfessorQuestion != "":
		text = p.ProfessorQuestion
	case text == "" && p.Notes != "":
		text = p.Notes
	case text == "" && p.AudioFile != "":
		text = p.AudioFile
	case text == "":
		text = "No content"
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			runes[i] = ' '
		}
	}
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return string(runes)
}

type ListPromptsResponse struct {
	Prompts []Prompt `json:"prompts" yaml:"prompts,omitempty"`
}

type CreatePromptResponse struct {
	BaseResponse
	PromptID int `json:"prompt_id,omitempty" yaml:"prompt_id,omitempty"`
}

type UploadResponse struct {
	BaseResponse
	Filename  string `json:"filename,omitempty" yaml:"filename,omitempty"`
	AudioPath string `json:"audio_path,omitempty" yaml:"audio_path,omitempty"`
}

// StoredName is the name the backend assigned to the uploaded file
func (r *UploadResponse) StoredName() string {
	if r.Filename != "" {
		return r.Filename
	}
	return r.AudioPath
}

type AudioListResponse struct {
	AudioFiles []string `json:"audio_files" yaml:"audio_files,omitempty"`
}

type TaskContent struct {
	AudioPath string `json:"audio_path,omitempty" yaml:"audio_path,omitempty"`
	Reading   string `json:"reading,omitempty" yaml:"reading,omitempty"`
}
