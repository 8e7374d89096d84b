// Package export renders a user's performance history as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	SummarySheet = "Summary"
	ScoresSheet  = "Scores"
	RolesSheet   = "Roles"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

// WritePerformance writes the account summary, score history and per-role
// interview counts to w as an xlsx workbook.
func WritePerformance(w io.Writer, user *types.User, metrics *types.PerformanceMetrics, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{ScoresSheet, RolesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, headerStyle, user, metrics, generatedAt); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeScores(f, headerStyle, metrics); err != nil {
		return fmt.Errorf("failed to write scores sheet: %w", err)
	}
	if err := writeRoles(f, headerStyle, metrics); err != nil {
		return fmt.Errorf("failed to write roles sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, headerStyle int, user *types.User, m *types.PerformanceMetrics, generatedAt time.Time) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return err
	}

	rows := [][]any{
		{"Performance Report", ""},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Generated", generatedAt.UTC().Format(timeLayout)},
		{"XP Points", user.XPPoints},
		{"Level", string(user.Level)},
		{"Progress Level", string(m.ProgressLevel)},
		{"Interviews", m.InterviewCount()},
		{"Average Score", m.AverageScore},
		{"Improvement Rate", m.ImprovementRate},
		{"ATS Score", user.ATSScore},
	}
	for _, b := range user.Badges {
		rows = append(rows, []any{"Badge", fmt.Sprintf("%s (%s)", b.Name, b.EarnedAt.UTC().Format(timeLayout))})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle)
}

func writeScores(f *excelize.File, headerStyle int, m *types.PerformanceMetrics) error {
	if err := f.SetSheetRow(ScoresSheet, "A1", &[]any{"#", "Completed At", "Score"}); err != nil {
		return err
	}
	for i, score := range m.Scores {
		var at string
		if i < len(m.Timestamps) {
			at = m.Timestamps[i].UTC().Format(timeLayout)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ScoresSheet, cell, &[]any{i + 1, at, score}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(ScoresSheet, "B", "B", 22); err != nil {
		return err
	}
	return f.SetCellStyle(ScoresSheet, "A1", "C1", headerStyle)
}

func writeRoles(f *excelize.File, headerStyle int, m *types.PerformanceMetrics) error {
	if err := f.SetSheetRow(RolesSheet, "A1", &[]any{"Role", "Interviews"}); err != nil {
		return err
	}
	roles := slices.Sorted(maps.Keys(m.InterviewsByRole))
	for i, role := range roles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RolesSheet, cell, &[]any{role, m.InterviewsByRole.Get(role)}); err != nil {
			return err
		}
	}
	totalCell, err := excelize.CoordinatesToCellName(1, len(roles)+2)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(RolesSheet, totalCell, &[]any{"Total", m.InterviewsByRole.Total()}); err != nil {
		return err
	}
	if err := f.SetColWidth(RolesSheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetCellStyle(RolesSheet, "A1", "B1", headerStyle)
}
