package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

// ErrNothingToExport is returned when the requested export scope matches
// no defects.
var ErrNothingToExport = errors.New("no defects to export")

// ExportService renders the defect register in office-friendly formats:
// an xlsx workbook and an iCalendar feed of target close dates.
type ExportService interface {
	ExportDefects(ctx context.Context, actorID, vesselFilter string) (*ExportFile, error)
	ExportTargetCloseCalendar(ctx context.Context, actorID, vesselFilter string) (*ExportFile, error)
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var registerColumns = []string{
	"Defect ID", "Vessel IMO", "Title", "Equipment", "Source",
	"Priority", "Status", "Responsibility", "PR Status",
	"Date Identified", "Target Close Date", "Closed At", "Closure Remarks",
}

// ExportDefects renders the visible defect register as an xlsx workbook.
func (s *exportService) ExportDefects(ctx context.Context, actorID, vesselFilter string) (*ExportFile, error) {
	defects, err := s.visibleDefects(ctx, actorID, vesselFilter)
	if err != nil {
		return nil, err
	}
	if len(defects) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Defect Register"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(registerColumns), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for row, d := range defects {
		values := []interface{}{
			d.DefectID, d.VesselIMO, d.Title, d.EquipmentName, string(d.DefectSource),
			string(d.Priority), string(d.Status),
			strOrEmpty(d.Responsibility), strOrEmpty(d.PrStatus),
			dateOrEmpty(d.DateIdentified), dateOrEmpty(d.TargetCloseDate),
			dateOrEmpty(d.ClosedAt), strOrEmpty(d.ClosureRemarks),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "B", 14)
	f.SetColWidth(sheet, "C", "D", 30)
	f.SetColWidth(sheet, "E", "M", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("writing xlsx failed", zap.Error(err))
		return nil, err
	}

	return &ExportFile{
		FileName:    fmt.Sprintf("defect_register_%s.xlsx", time.Now().UTC().Format("20060102")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

// ExportTargetCloseCalendar renders upcoming target close dates as an ICS
// feed that planners can subscribe to. Closed, deleted, and undated
// defects are omitted.
func (s *exportService) ExportTargetCloseCalendar(ctx context.Context, actorID, vesselFilter string) (*ExportFile, error) {
	defects, err := s.visibleDefects(ctx, actorID, vesselFilter)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Staunch Software//DRS Backend//EN")
	cal.SetName("Defect Target Close Dates")

	count := 0
	for i := range defects {
		d := &defects[i]
		if d.TargetCloseDate == nil || d.Status == model.StatusClosed {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("defect-%s@drs", d.DefectID))
		event.SetCreatedTime(d.CreatedAt)
		event.SetDtStampTime(time.Now().UTC())
		event.SetAllDayStartAt(*d.TargetCloseDate)
		event.SetAllDayEndAt(d.TargetCloseDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("[%s] Target close: %s", d.VesselIMO, d.Title))
		event.SetDescription(fmt.Sprintf("Equipment: %s\nPriority: %s\nStatus: %s",
			d.EquipmentName, d.Priority, d.Status))
		count++
	}

	if count == 0 {
		return nil, ErrNothingToExport
	}

	return &ExportFile{
		FileName:    "defect_target_dates.ics",
		ContentType: "text/calendar",
		Content:     []byte(cal.Serialize()),
	}, nil
}

func (s *exportService) visibleDefects(ctx context.Context, actorID, vesselFilter string) ([]model.Defect, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var filters repository.DefectListFilters
	if actor.Role == model.RoleVessel {
		filters.VesselIMOs = actor.VesselIMOs()
	} else {
		filters.VesselIMO = vesselFilter
	}
	return s.repo.Defect.List(ctx, filters)
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
