package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/vms-predict/internal/artifact"
	"github.com/Veraticus/vms-predict/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// RenderArtifact summarizes a loaded artifact: its metadata, feature schema
// and which optional transformers it carries.
func RenderArtifact(a *artifact.Artifact) string {
	var b strings.Builder

	lines := []string{
		KeyValue("Path", a.Path),
		KeyValue("Size", fmt.Sprintf("%d bytes", a.Size)),
		KeyValue("Checksum", a.Checksum),
		KeyValue("Model type", a.ModelType()),
		KeyValue("Classifier", a.Capability()),
		KeyValue("Classes", strings.Join(a.Labels.Classes, ", ")),
	}
	if !a.Info.TrainingDate.IsZero() {
		lines = append(lines, KeyValue("Trained", a.Info.TrainingDate.Format("2006-01-02 15:04")))
	}
	if a.Info.TrainingSamples > 0 {
		lines = append(lines,
			KeyValue("Training samples", strconv.Itoa(a.Info.TrainingSamples)),
			KeyValue("CV accuracy", fmt.Sprintf("%.4f", a.Info.CVAccuracy)),
			KeyValue("Test accuracy", fmt.Sprintf("%.4f", a.Info.TestAccuracy)),
		)
	}
	b.WriteString(RenderBox("Model artifact", strings.Join(lines, "\n")))
	b.WriteString("\n")

	schema := []string{KeyValue("Schema version", strconv.Itoa(a.Schema.Version))}
	if a.Schema.Legacy() {
		schema = append(schema, WarningStyle.Render("No declared feature columns; built-in numeric columns will be used"))
	} else {
		schema = append(schema,
			KeyValue("Numerical", strings.Join(a.Schema.Numerical, ", ")),
			KeyValue("Categorical", strings.Join(a.Schema.Categorical, ", ")),
		)
	}
	schema = append(schema, KeyValue("Text", a.Schema.Text()))
	b.WriteString(RenderBox("Feature schema", strings.Join(schema, "\n")))
	b.WriteString("\n")

	stages := []string{
		KeyValue("Numerical imputer", Presence(a.NumericalImputer != nil, "present")),
		KeyValue("Numerical scaler", Presence(a.NumericalScaler != nil, "present")),
		KeyValue("Categorical imputer", Presence(a.CategoricalImputer != nil, "present")),
		KeyValue("Text vectorizer", Presence(a.TextVectorizer != nil, vectorizerDetail(a))),
		KeyValue("Feature selector", Presence(a.FeatureSelector != nil, "present")),
	}
	b.WriteString(RenderBox("Transformers", strings.Join(stages, "\n")))
	b.WriteString("\n")
	return b.String()
}

func vectorizerDetail(a *artifact.Artifact) string {
	if a.TextVectorizer == nil {
		return ""
	}
	return fmt.Sprintf("%d terms", a.TextVectorizer.Width())
}

// RenderHistory renders prediction history as an aligned table.
func RenderHistory(entries []model.HistoryEntry) string {
	if len(entries) == 0 {
		return WarningStyle.Render("No predictions recorded yet") + "\n"
	}

	header := []string{"WHEN", "VEHICLE", "CATEGORY", "CONF", "METHOD", "QUALITY", "CACHED"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		cached := ""
		if e.FromCache {
			cached = PresentIcon
		}
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Vehicle,
			e.Category,
			fmt.Sprintf("%.2f", e.Confidence),
			string(e.Method),
			qualityStyle(e.Quality).Render(string(e.Quality)),
			cached,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(header, widths, TableHeaderStyle))
	for _, row := range rows {
		b.WriteString(renderRow(row, widths, TableCellStyle))
	}
	return b.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Width(widths[i] + 2).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func qualityStyle(q model.Quality) lipgloss.Style {
	switch q {
	case model.QualityHigh:
		return SuccessStyle
	case model.QualityAcceptable:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
