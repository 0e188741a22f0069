package validator

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/futig/exam-practice/internal/config"
	"github.com/futig/exam-practice/internal/entity"
)

var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".webm": true,
}

var DiagramExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Validator checks prompt payloads and uploads before they reach the backend
type Validator struct {
	cfg config.UploadConfig
}

func NewValidator(cfg config.UploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidatePrompt checks the fields a collection needs to run its task
func (v *Validator) ValidatePrompt(kind entity.TaskKind, f *entity.PromptFields) error {
	if kind.PromptStore() == "" {
		return fmt.Errorf("%w: %s", entity.ErrNoPromptStore, kind)
	}

	switch kind {
	case entity.TaskTOEFL2, entity.TaskTOEFL3, entity.TaskTOEFL5:
		if strings.TrimSpace(f.Reading) == "" {
			return fmt.Errorf("%w: reading", entity.ErrMissingField)
		}
	case entity.TaskTOEFL4:
		if f.AudioFile == nil || strings.TrimSpace(*f.AudioFile) == "" {
			return fmt.Errorf("%w: audio_file", entity.ErrMissingField)
		}
	case entity.TaskTOEFL6:
		if strings.TrimSpace(f.ProfessorQuestion) == "" {
			return fmt.Errorf("%w: professor_question", entity.ErrMissingField)
		}
	default:
		if strings.TrimSpace(f.Question) == "" {
			return fmt.Errorf("%w: question", entity.ErrMissingField)
		}
	}

	if part := kind.SpeakingPart(); part > 0 && f.Part != 0 && f.Part != part {
		return fmt.Errorf("%w: part %d does not match %s", entity.ErrInvalidParameter, f.Part, kind)
	}

	return nil
}

// ValidateAudioUpload checks an audio file attached to a TOEFL collection
func (v *Validator) ValidateAudioUpload(filename string, size int64) error {
	return checkFile(filename, size, AudioExtensions, v.cfg.MaxAudioFileSize)
}

// ValidateDiagramUpload checks a Writing Task 1 chart
func (v *Validator) ValidateDiagramUpload(filename string, size int64) error {
	return checkFile(filename, size, DiagramExtensions, v.cfg.MaxDiagramFileSize)
}

func checkFile(filename string, size int64, allowed map[string]bool, maxSize int64) error {
	if filename == "" {
		return fmt.Errorf("%w: filename", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return fmt.Errorf("%w: %q (allowed: %s)", entity.ErrInvalidExtension, ext, listExtensions(allowed))
	}

	if size <= 0 {
		return fmt.Errorf("%w: %s is empty", entity.ErrInvalidFile, filename)
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, filename, size, maxSize)
	}

	return nil
}

func listExtensions(allowed map[string]bool) string {
	exts := make([]string, 0, len(allowed))
	for ext := range allowed {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}

// SanitizeFilename strips directories and characters the backend's
// secure_filename would mangle anyway
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
