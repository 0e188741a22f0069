package cli

import (
	"fmt"
	"os"

	"github.com/futig/exam-practice/internal/builder"
	"github.com/futig/exam-practice/internal/entity"
	"go.uber.org/zap"
)

// writeReport exports the run summary; the format follows the extension
func writeReport(app *builder.App, summary *entity.RunSummary, path string) error {
	format, err := entity.FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("report %s: %w (use .md, .pdf or .docx)", path, err)
	}

	f, err := app.Formatters.Create(format)
	if err != nil {
		return err
	}

	data, err := f.Format(summary)
	if err != nil {
		return fmt.Errorf("format %s report: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	app.Logger.Info("report written", zap.String("path", path), zap.String("format", string(format)), zap.Int("size", len(data)))
	app.Console.Success("Results saved to " + path)
	return nil
}
