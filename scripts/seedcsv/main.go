// Command seedcsv writes synthetic roster and score CSVs suitable for
// exercising the upload endpoints during development.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

var programs = []string{"MED", "DENT", "PHARM"}

func main() {
	var (
		outDir   = flag.String("out", ".", "output directory")
		students = flag.Int("students", 40, "number of students")
		seed     = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	roster := make([][]string, 0, *students)
	var scores [][]string
	for i := 0; i < *students; i++ {
		prefix := 412 + rng.Intn(3)
		dept := fmt.Sprintf("%02d", 1+rng.Intn(3))
		id := fmt.Sprintf("%d%s%03d", prefix, dept, i+1)
		program := programs[rng.Intn(len(programs))]
		roster = append(roster, []string{id, fmt.Sprintf("Student %03d", i+1), program, "2024"})

		// Per-student baseline so some students trend red and others green.
		baseline := 35 + rng.Float64()*55
		for week := models.MinWeek; week <= models.MaxWeek; week++ {
			for _, subject := range models.Subjects {
				if rng.Float64() < 0.06 {
					scores = append(scores, scoreRow(id, week, subject, models.AssessmentWeekly, ""))
					continue
				}
				value := clamp(baseline + rng.NormFloat64()*12)
				scores = append(scores, scoreRow(id, week, subject, models.AssessmentWeekly, formatValue(value)))
			}
		}
		for _, subject := range models.Subjects {
			scores = append(scores, scoreRow(id, 9, subject, models.AssessmentMidterm, formatValue(clamp(baseline+rng.NormFloat64()*15))))
			scores = append(scores, scoreRow(id, 18, subject, models.AssessmentFinal, formatValue(clamp(baseline+rng.NormFloat64()*15))))
		}
	}

	if err := writeCSV(filepath.Join(*outDir, "roster.csv"), []string{"student_id", "name", "program", "enrolled_year"}, roster); err != nil {
		log.Fatalf("write roster: %v", err)
	}
	if err := writeCSV(filepath.Join(*outDir, "scores.csv"), []string{"student_id", "week", "subject", "type", "raw_score"}, scores); err != nil {
		log.Fatalf("write scores: %v", err)
	}
	log.Printf("wrote %d roster rows and %d score rows to %s", len(roster), len(scores), *outDir)
}

func scoreRow(id string, week int, subject models.Subject, assessType models.AssessmentType, value string) []string {
	return []string{id, strconv.Itoa(week), string(subject), string(assessType), value}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func writeCSV(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
