package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/exam-practice/internal/entity"
)

// Task1Lines keeps the non-blank lines of typed Task 1 prompts
func Task1Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParsePromptSelection parses "KIND=ID" pairs such as "2=5" or "speaking2=14"
func ParsePromptSelection(pairs []string) (map[entity.TaskKind]int, error) {
	selected := make(map[entity.TaskKind]int, len(pairs))
	for _, pair := range pairs {
		rawKind, rawID, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: prompt selection %q, want KIND=ID", entity.ErrInvalidFormat, pair)
		}

		kind, err := entity.ParseTaskKind(rawKind)
		if err != nil {
			return nil, err
		}
		if kind.PromptStore() == "" {
			return nil, fmt.Errorf("%w: %s", entity.ErrNoPromptStore, kind)
		}

		id, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: prompt id %q", entity.ErrInvalidParameter, rawID)
		}
		selected[kind] = id
	}
	return selected, nil
}

// ParseTaskList parses a comma separated task list, keeping exam order
// and dropping duplicates
func ParseTaskList(raw []string) ([]entity.TaskKind, error) {
	seen := make(map[entity.TaskKind]bool)
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			kind, err := entity.ParseTaskKind(part)
			if err != nil {
				return nil, err
			}
			seen[kind] = true
		}
	}

	var kinds []entity.TaskKind
	for _, kind := range entity.AllTasks {
		if seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}
