package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

type meanAcc struct {
	sum   float64
	count int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.count++
}

func (a meanAcc) mean() *float64 {
	if a.count == 0 {
		return nil
	}
	m := a.sum / float64(a.count)
	return &m
}

// Divergence compares each student's weekly aggregate performance
// against midterm/final performance and across the two subjects. Three
// independent conditions can fire; a condition whose operand is
// missing is skipped, not false-triggered. The weekly-mean baseline is
// compared against the global yellow cutoff, since it spans the whole
// cohort regardless of per-program overrides. Students with no
// satisfied condition are excluded from the output.
func Divergence(merged []models.ScoredRecord, cfg models.ThresholdConfig) []models.DivergenceFlag {
	type studentAcc struct {
		weekly    meanAcc
		midterm   meanAcc
		final     meanAcc
		bySubject map[models.Subject]*meanAcc
	}
	accs := make(map[string]*studentAcc)
	meta := make(map[string]models.ScoredRecord)
	var order []string

	for _, record := range merged {
		if record.RawScore == nil {
			continue
		}
		acc, ok := accs[record.StudentID]
		if !ok {
			acc = &studentAcc{bySubject: make(map[models.Subject]*meanAcc)}
			accs[record.StudentID] = acc
			meta[record.StudentID] = record
			order = append(order, record.StudentID)
		}
		switch record.Type {
		case models.AssessmentWeekly:
			acc.weekly.add(*record.RawScore)
			subjectAcc, ok := acc.bySubject[record.Subject]
			if !ok {
				subjectAcc = &meanAcc{}
				acc.bySubject[record.Subject] = subjectAcc
			}
			subjectAcc.add(*record.RawScore)
		case models.AssessmentMidterm:
			acc.midterm.add(*record.RawScore)
		case models.AssessmentFinal:
			acc.final.add(*record.RawScore)
		}
	}

	yellowMax := cfg.Global.YellowMax
	adv := cfg.Advanced

	sort.Strings(order)
	flags := make([]models.DivergenceFlag, 0)
	for _, studentID := range order {
		acc := accs[studentID]
		weeklyMean := acc.weekly.mean()
		midMean := acc.midterm.mean()
		finalMean := acc.final.mean()
		crossGap := crossSubjectGap(acc.bySubject)

		var reasons []string
		if weeklyMean != nil && midMean != nil &&
			*weeklyMean >= yellowMax && *midMean < adv.MidLow {
			reasons = append(reasons, fmt.Sprintf(
				"weekly mean >=%g but midterm mean below %g", yellowMax, adv.MidLow))
		}
		if weeklyMean != nil && finalMean != nil &&
			*weeklyMean >= yellowMax && *finalMean < adv.FinalLow {
			reasons = append(reasons, fmt.Sprintf(
				"weekly mean >=%g but final mean below %g", yellowMax, adv.FinalLow))
		}
		if crossGap != nil && *crossGap >= adv.CrossGap {
			reasons = append(reasons, fmt.Sprintf("cross-subject gap >=%g", adv.CrossGap))
		}
		if len(reasons) == 0 {
			continue
		}
		record := meta[studentID]
		flags = append(flags, models.DivergenceFlag{
			StudentID:   studentID,
			StudentName: record.StudentName,
			Program:     record.Program,
			Reason:      strings.Join(reasons, "; "),
			WeeklyMean:  weeklyMean,
			MidtermMean: midMean,
			FinalMean:   finalMean,
			CrossGap:    crossGap,
		})
	}
	return flags
}

// crossSubjectGap is the absolute difference between the per-subject
// weekly means. It requires weekly data in both subjects.
func crossSubjectGap(bySubject map[models.Subject]*meanAcc) *float64 {
	biochem, ok := bySubject[models.SubjectBiochem]
	if !ok {
		return nil
	}
	molbio, ok := bySubject[models.SubjectMolbio]
	if !ok {
		return nil
	}
	a, b := biochem.mean(), molbio.mean()
	if a == nil || b == nil {
		return nil
	}
	gap := *a - *b
	if gap < 0 {
		gap = -gap
	}
	return &gap
}
