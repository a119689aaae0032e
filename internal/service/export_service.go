package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/engine"
	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
	"github.com/noah-isme/pa-ews-api/pkg/export"
)

type anonStore interface {
	EnsureAliases(ctx context.Context, studentIDs []string) (map[string]models.AnonMapping, error)
}

// ExportService renders the downloadable artifacts: the merged table
// as CSV, the anonymized CSV with stable sequential aliases, and the
// combined risk report as PDF.
type ExportService struct {
	scores     scoreReader
	roster     rosterReader
	thresholds thresholdProvider
	anon       anonStore
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
	pdfTitle   string
}

// NewExportService constructs the service.
func NewExportService(scores scoreReader, roster rosterReader, thresholds thresholdProvider, anon anonStore, csvExporter *export.CSVExporter, pdfExporter *export.PDFExporter, logger *zap.Logger, pdfTitle string) *ExportService {
	if csvExporter == nil {
		csvExporter = export.NewCSVExporter()
	}
	if pdfExporter == nil {
		pdfExporter = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdfTitle == "" {
		pdfTitle = "Early Warning Risk Report"
	}
	return &ExportService{
		scores:     scores,
		roster:     roster,
		thresholds: thresholds,
		anon:       anon,
		csv:        csvExporter,
		pdf:        pdfExporter,
		logger:     logger,
		pdfTitle:   pdfTitle,
	}
}

// ScoresCSV renders the full merged analytic table.
func (s *ExportService) ScoresCSV(ctx context.Context) ([]byte, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"student_id", "student_name", "program", "cohort", "department", "week", "subject", "type", "score", "band", "assessment_key"},
	}
	for _, record := range snap.Merged {
		data.Rows = append(data.Rows, []string{
			record.StudentID,
			record.StudentName,
			record.Program,
			record.Cohort,
			record.Department,
			strconv.Itoa(record.Week),
			string(record.Subject),
			string(record.Type),
			formatScore(record.RawScore),
			string(record.Band),
			record.AssessmentKey,
		})
	}
	return s.render(data)
}

// AnonymizedCSV renders the merged table with student identities
// replaced by stable aliases. Missing aliases are assigned on the fly;
// once assigned, an alias never changes.
func (s *ExportService) AnonymizedCSV(ctx context.Context) ([]byte, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var studentIDs []string
	for _, record := range snap.Merged {
		if _, ok := seen[record.StudentID]; ok {
			continue
		}
		seen[record.StudentID] = struct{}{}
		studentIDs = append(studentIDs, record.StudentID)
	}

	aliases, err := s.anon.EnsureAliases(ctx, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assign aliases")
	}

	data := export.Dataset{
		Headers: []string{"anon_id", "program", "cohort", "department", "week", "subject", "type", "score", "band"},
	}
	for _, record := range snap.Merged {
		alias, ok := aliases[record.StudentID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("no alias for student %s", record.StudentID))
		}
		data.Rows = append(data.Rows, []string{
			alias.AnonID,
			record.Program,
			record.Cohort,
			record.Department,
			strconv.Itoa(record.Week),
			string(record.Subject),
			string(record.Type),
			formatScore(record.RawScore),
			string(record.Band),
		})
	}
	return s.render(data)
}

// RiskPDF renders all three detector outputs as one stacked-table
// report, evaluated with the active configuration's defaults.
func (s *ExportService) RiskPDF(ctx context.Context) ([]byte, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, err
	}

	consecutive := engine.ConsecutiveRuns(snap.Merged, 0, 0)
	windows := engine.ScanWindows(snap.Merged, snap.Config.Window)
	divergence := engine.Divergence(snap.Merged, snap.Config)

	sections := []export.Section{
		{
			Caption: fmt.Sprintf("Consecutive runs (%d students)", len(consecutive)),
			Data:    consecutiveDataset(consecutive),
		},
		{
			Caption: fmt.Sprintf("Window triggers (%d windows)", len(windows)),
			Data:    windowDataset(windows),
		},
		{
			Caption: fmt.Sprintf("Divergence (%d students)", len(divergence)),
			Data:    divergenceDataset(divergence),
		},
	}

	payload, err := s.pdf.RenderSections(sections, s.pdfTitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render risk pdf")
	}
	return payload, nil
}

func (s *ExportService) render(data export.Dataset) ([]byte, error) {
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv")
	}
	return payload, nil
}

func consecutiveDataset(flags []models.RiskFlag) export.Dataset {
	data := export.Dataset{Headers: []string{"student_id", "name", "program", "max_red", "max_yellow", "reason"}}
	for _, flag := range flags {
		data.Rows = append(data.Rows, []string{
			flag.StudentID,
			flag.StudentName,
			flag.Program,
			strconv.Itoa(flag.MaxRedRun),
			strconv.Itoa(flag.MaxYellowRun),
			flag.Reason,
		})
	}
	return data
}

func windowDataset(triggers []models.WindowTrigger) export.Dataset {
	data := export.Dataset{Headers: []string{"student_id", "subject", "weeks", "red", "yellow", "reason"}}
	for _, trigger := range triggers {
		data.Rows = append(data.Rows, []string{
			trigger.StudentID,
			string(trigger.Subject),
			fmt.Sprintf("%d-%d", trigger.WeekStart, trigger.WeekEnd),
			strconv.Itoa(trigger.RedCount),
			strconv.Itoa(trigger.YellowCount),
			trigger.Reason,
		})
	}
	return data
}

func divergenceDataset(flags []models.DivergenceFlag) export.Dataset {
	data := export.Dataset{Headers: []string{"student_id", "weekly_mean", "midterm_mean", "final_mean", "cross_gap", "reason"}}
	for _, flag := range flags {
		data.Rows = append(data.Rows, []string{
			flag.StudentID,
			formatScore(flag.WeeklyMean),
			formatScore(flag.MidtermMean),
			formatScore(flag.FinalMean),
			formatScore(flag.CrossGap),
			flag.Reason,
		})
	}
	return data
}

func formatScore(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
