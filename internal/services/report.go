package services

import (
	"fmt"
	"math"

	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/xuri/excelize/v2"
)

const (
	resultSheet  = "Hasil"
	chapterSheet = "Bab"
	timeLayout   = "2006-01-02 15:04:05"
)

// buildResultWorkbook renders a finished session as an xlsx workbook with a
// result sheet and a per-chapter mastery sheet.
func buildResultWorkbook(report exam.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	status := "Tidak Lulus"
	if report.Result.Passed {
		status = "Lulus"
	}
	summary := [][]interface{}{
		{"Sesi", report.Key},
		{"Pengguna", report.UserID},
		{"Mata Pelajaran", report.Subject},
		{"Status", string(report.Status)},
		{"Mulai", report.StartedAt.Format(timeLayout)},
		{"Selesai", report.FinishedAt.Format(timeLayout)},
		{"Skor", fmt.Sprintf("%d / %d", report.Result.TotalScore, report.Result.MaxScore)},
		{"Benar", report.Result.CorrectCount},
		{"Dijawab", report.Result.AnsweredCount},
		{"Keterangan", status},
	}
	if err := writeRows(f, resultSheet, 1, summary); err != nil {
		return nil, err
	}

	header := 2 + len(summary)
	rows := [][]interface{}{{"No", "Tipe", "Bab", "Soal", "Jawaban", "Benar", "Bobot", "Skor"}}
	for _, row := range report.Rows {
		correct := "Tidak"
		if row.Item.Correct {
			correct = "Ya"
		}
		rows = append(rows, []interface{}{
			row.Number,
			string(row.Question.Type),
			row.Question.Chapter,
			row.Question.Text,
			row.Answer,
			correct,
			row.Item.Weight,
			row.Item.Earned,
		})
	}
	if err := writeRows(f, resultSheet, header, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(chapterSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	chapters := [][]interface{}{{"Bab", "Soal Dijawab", "Benar", "Penguasaan (%)"}}
	for i, c := range report.Mastery.Chapters {
		chapters = append(chapters, []interface{}{c.Chapter, c.Total, c.Correct, report.Mastery.SkillRadar[i].Level})
	}
	overall := int(math.Round(report.Mastery.MasteryLevel * 100))
	chapters = append(chapters, []interface{}{"Total", report.Mastery.TotalQuestions, report.Mastery.Correct, overall})
	if err := writeRows(f, chapterSheet, 1, chapters); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, firstRow int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", firstRow+i, sheet, err)
		}
	}
	return nil
}
