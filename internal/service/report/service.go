// Package report renders patient-facing exports: a PDF health summary and a
// spreadsheet dump of raw readings.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
	"github.com/curagenie/health-api/internal/vitals"
	apperrors "github.com/curagenie/health-api/pkg/errors"
)

type Service struct {
	patients repository.PatientRepository
	readings repository.ReadingRepository
	users    repository.UserRepository
	logger   *zerolog.Logger
}

func NewService(
	patients repository.PatientRepository,
	readings repository.ReadingRepository,
	users repository.UserRepository,
	logger *zerolog.Logger,
) *Service {
	return &Service{patients: patients, readings: readings, users: users, logger: logger}
}

// HealthSummaryPDF renders the patient's trend summaries and recent alerts
// for the trailing window.
func (s *Service) HealthSummaryPDF(ctx context.Context, userID uuid.UUID, days int) ([]byte, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var summaries []model.TrendSummary
	var alerts []model.Reading
	for _, metricType := range model.MetricTypes {
		mt := metricType
		readings, err := s.readings.Query(ctx, patient.ID, &mt, since)
		if err != nil {
			return nil, apperrors.Persistence("failed to query readings", err)
		}
		if summary := vitals.Summarize(readings); summary != nil {
			summaries = append(summaries, *summary)
		}
		for _, r := range readings {
			if r.IsAlert {
				alerts = append(alerts, r)
			}
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Health Summary", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Health Summary Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Patient: %s", user.FullName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Period: last %d days", days))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Vital Sign Trends")
	pdf.Ln(10)

	headers := []string{"Metric", "Average", "Min", "Max", "Latest", "Trend"}
	widths := []float64{45, 25, 25, 25, 25, 30}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(summaries) == 0 {
		pdf.CellFormat(175, 7, "No readings in this period", "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	for _, sm := range summaries {
		cells := []string{
			string(sm.MetricType),
			fmt.Sprintf("%.2f", sm.Average),
			fmt.Sprintf("%.1f", sm.Min),
			fmt.Sprintf("%.1f", sm.Max),
			fmt.Sprintf("%.1f", sm.Latest),
			string(sm.Trend),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Alerts (%d)", len(alerts)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	if len(alerts) == 0 {
		pdf.Cell(0, 6, "No alerts in this period.")
		pdf.Ln(6)
	}
	for _, a := range alerts {
		msg := ""
		if a.AlertMessage != nil {
			msg = *a.AlertMessage
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s  %s = %.1f  %s",
			a.RecordedAt.Format("2006-01-02 15:04"), a.MetricType, a.Value, msg))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to render pdf: %w", err))
	}
	return buf.Bytes(), nil
}

// ReadingsXLSX exports the patient's raw readings for the window as a
// spreadsheet, one row per reading.
func (s *Service) ReadingsXLSX(ctx context.Context, userID uuid.UUID, metricType string, days int) ([]byte, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	var filter *model.MetricType
	if metricType != "" {
		mt := model.MetricType(metricType)
		if !mt.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unsupported metric type %q", metricType), nil)
		}
		filter = &mt
	}

	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	readings, err := s.readings.Query(ctx, patient.ID, filter, since)
	if err != nil {
		return nil, apperrors.Persistence("failed to query readings", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Readings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Recorded At", "Metric", "Value", "Unit", "Systolic", "Diastolic", "Alert", "Alert Message", "Device", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range readings {
		values := []interface{}{
			r.RecordedAt.Format(time.RFC3339),
			string(r.MetricType),
			r.Value,
			r.Unit,
			deref(r.Systolic),
			deref(r.Diastolic),
			r.IsAlert,
			derefStr(r.AlertMessage),
			r.DeviceID,
			r.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to render spreadsheet: %w", err))
	}
	return buf.Bytes(), nil
}

func deref(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
