package prompts

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector keeps every collection in memory, seeded with one prompt
// per collection so a complete run works offline.
type MockConnector struct {
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	stores map[string][]entity.Prompt
	audio  map[string][]string
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	m := &MockConnector{
		logger: logger,
		nextID: 100,
		stores: map[string][]entity.Prompt{
			"task/2": {{ID: 1, Reading: "The university will close the main library on Sundays to reduce costs.", AudioFile: "task2_discussion.mp3"}},
			"task/3": {{ID: 2, Reading: "Social loafing is the tendency to put in less effort when working in a group.", AudioFile: "task3_lecture.mp3"}},
			"task/4": {{ID: 3, AudioFile: "task4_lecture.mp3"}},
			"task/5": {{ID: 4, Reading: "Scientists have proposed three explanations for the decline of bee colonies.", AudioFile: "task5_lecture.mp3"}},
			"task/6": {{ID: 5, ProfessorQuestion: "Should governments fund space exploration?", StudentPosts: []string{"Yes, it drives innovation.", "No, there are problems on Earth first."}}},
			"speaking": {
				{ID: 6, Part: 1, Question: "Do you work or study?\nWhat do you like about your hometown?"},
				{ID: 7, Part: 2, Topic: "Describe a book you enjoyed", Question: "You should say what it was, when you read it and why you liked it.", Notes: "what / when / why"},
				{ID: 8, Part: 3, Question: "Why do fewer people read printed books today?"},
			},
			"writing_task1": {{ID: 9, Question: "The chart shows household spending in 2000 and 2020.", DiagramDescription: "Bar chart comparing five spending categories."}},
			"writing_task2": {{ID: 10, Question: "Some people think cities should ban cars from the centre. Discuss both views.", EssayType: "discussion"}},
		},
		audio: make(map[string][]string),
	}
	for store, list := range m.stores {
		for _, p := range list {
			if p.AudioFile != "" {
				m.audio[store] = append(m.audio[store], p.AudioFile)
			}
		}
	}
	return m
}

func (m *MockConnector) List(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error) {
	store, err := storeOf(kind)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]entity.Prompt(nil), m.stores[store]...)
	ctxzap.Info(ctx, "[MOCK] listing prompts", zap.String("store", store), zap.Int("count", len(list)))
	return list, nil
}

func (m *MockConnector) Get(ctx context.Context, kind entity.TaskKind, id int) (*entity.Prompt, error) {
	list, err := m.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s #%d", entity.ErrPromptNotFound, kind.Label(), id)
}

func (m *MockConnector) Create(ctx context.Context, kind entity.TaskKind, fields *entity.PromptFields) (int, error) {
	store, err := storeOf(kind)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.stores[store] = append(m.stores[store], fromFields(m.nextID, fields))

	ctxzap.Info(ctx, "[MOCK] prompt created", zap.String("store", store), zap.Int("prompt_id", m.nextID))
	return m.nextID, nil
}

func (m *MockConnector) Update(ctx context.Context, kind entity.TaskKind, id int, fields *entity.PromptFields) error {
	store, err := storeOf(kind)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.stores[store] {
		if p.ID == id {
			m.stores[store][i] = fromFields(id, fields)
			ctxzap.Info(ctx, "[MOCK] prompt updated", zap.String("store", store), zap.Int("prompt_id", id))
			return nil
		}
	}
	return fmt.Errorf("update prompt %d: %w: Prompt not found", id, entity.ErrBackendRejected)
}

func (m *MockConnector) Delete(ctx context.Context, kind entity.TaskKind, id int) error {
	store, err := storeOf(kind)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.stores[store]
	for i, p := range list {
		if p.ID == id {
			m.stores[store] = append(list[:i:i], list[i+1:]...)
			ctxzap.Info(ctx, "[MOCK] prompt deleted", zap.String("store", store), zap.Int("prompt_id", id))
			return nil
		}
	}
	return fmt.Errorf("delete prompt %d: %w: Prompt not found", id, entity.ErrBackendRejected)
}

func (m *MockConnector) UploadAudio(ctx context.Context, kind entity.TaskKind, filename string, data []byte) (string, error) {
	store, err := audioStore(kind)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := filepath.Base(filename)
	m.audio[store] = append(m.audio[store], name)

	ctxzap.Info(ctx, "[MOCK] audio uploaded", zap.String("store", store), zap.String("file", name), zap.Int("size", len(data)))
	return name, nil
}

func (m *MockConnector) UploadDiagram(ctx context.Context, filename string, data []byte) (string, error) {
	name := filepath.Base(filename)
	ctxzap.Info(ctx, "[MOCK] diagram uploaded", zap.String("file", name), zap.Int("size", len(data)))
	return name, nil
}

func (m *MockConnector) ListAudio(ctx context.Context, kind entity.TaskKind) ([]string, error) {
	store, err := audioStore(kind)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.audio[store]...), nil
}

func (m *MockConnector) Content(ctx context.Context, kind entity.TaskKind) (*entity.TaskContent, error) {
	files, err := m.ListAudio(ctx, kind)
	if err != nil {
		return nil, err
	}
	content := &entity.TaskContent{}
	if len(files) > 0 {
		content.AudioPath = files[len(files)-1]
	}
	return content, nil
}

// FetchAudio returns an empty clip; mock playback only waits
func (m *MockConnector) FetchAudio(ctx context.Context, kind entity.TaskKind, filename string) (*entity.AudioClip, error) {
	if _, err := audioStore(kind); err != nil {
		return nil, err
	}
	ctxzap.Info(ctx, "[MOCK] fetching prompt audio", zap.String("file", filename))
	return &entity.AudioClip{MIMEType: "audio/mpeg", Filename: filename}, nil
}

func fromFields(id int, f *entity.PromptFields) entity.Prompt {
	p := entity.Prompt{
		ID:                 id,
		Part:               f.Part,
		Question:           f.Question,
		Topic:              f.Topic,
		Reading:            f.Reading,
		Notes:              f.Notes,
		DiagramDescription: f.DiagramDescription,
		EssayType:          f.EssayType,
		ProfessorQuestion:  f.ProfessorQuestion,
		StudentPosts:       f.StudentPosts,
	}
	if f.AudioFile != nil {
		p.AudioFile = *f.AudioFile
	}
	if f.DiagramFile != nil {
		p.DiagramFile = *f.DiagramFile
	}
	return p
}
