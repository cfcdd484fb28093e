package exam

import (
	"math"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

type ChapterScore struct {
	Chapter string `json:"chapter"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

type MasteryReport struct {
	TotalQuestions int                 `json:"total_questions"`
	Correct        int                 `json:"correct"`
	MasteryLevel   float64             `json:"mastery_level"`
	Chapters       []ChapterScore      `json:"chapters"`
	SkillRadar     []models.SkillLevel `json:"skill_radar"`
}

// Mastery aggregates an attempt per chapter. The overall level counts every
// question; chapter rows only count answered questions that carry a chapter.
func Mastery(questions []models.Question, answers []Answer) MasteryReport {
	report := MasteryReport{TotalQuestions: len(questions)}
	index := map[string]int{}

	for i := range questions {
		q := &questions[i]
		var a Answer
		if i < len(answers) {
			a = answers[i]
		}
		correct := IsCorrect(q, a)
		if correct {
			report.Correct++
		}
		chapter := q.Chapter
		if a.IsEmpty() || chapter == "" {
			continue
		}
		pos, ok := index[chapter]
		if !ok {
			pos = len(report.Chapters)
			index[chapter] = pos
			report.Chapters = append(report.Chapters, ChapterScore{Chapter: chapter})
		}
		report.Chapters[pos].Total++
		if correct {
			report.Chapters[pos].Correct++
		}
	}

	if report.TotalQuestions > 0 {
		report.MasteryLevel = float64(report.Correct) / float64(report.TotalQuestions)
	}
	report.SkillRadar = make([]models.SkillLevel, 0, len(report.Chapters))
	for _, c := range report.Chapters {
		report.SkillRadar = append(report.SkillRadar, models.SkillLevel{
			Skill: c.Chapter,
			Level: int(math.Round(float64(c.Correct) / float64(c.Total) * 100)),
		})
	}
	return report
}
