package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

const campaignSheet = "Campaigns"

var campaignColumns = []string{
	"id", "name", "platform", "status",
	"budget", "budget_type", "currency",
	"date_range_start", "date_range_end",
	"description", "enhance_with_ai",
	"media_file_url", "media_file_urls",
	"created_at", "updated_at",
}

// Service renders campaign spreadsheets
type Service struct{}

// NewExcelService creates a new Excel service instance
func NewExcelService() *Service {
	return &Service{}
}

// ExportFilename returns the attachment name of an export taken at now
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("campaigns_%d.xlsx", now.Unix())
}

// ExportCampaigns writes one row per campaign to w as an xlsx workbook
func (s *Service) ExportCampaigns(w io.Writer, campaigns []*models.Campaign) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheetName := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheetName, campaignSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	for i, col := range campaignColumns {
		cell := fmt.Sprintf("%s1", columnToLetter(i+1))
		f.SetCellValue(campaignSheet, cell, col)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err == nil {
		f.SetCellStyle(campaignSheet, "A1", columnToLetter(len(campaignColumns))+strconv.Itoa(1), headerStyle)
	}

	// Drafts are greyed out
	draftStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9D9D9"},
			Pattern: 1,
		},
	})

	for i, col := range campaignColumns {
		colLetter := columnToLetter(i + 1)
		width := 20.0

		switch col {
		case "id":
			width = 38.0
		case "name":
			width = 25.0
		case "description", "media_file_url", "media_file_urls":
			width = 50.0
		case "status", "currency", "budget_type", "platform":
			width = 12.0
		}

		f.SetColWidth(campaignSheet, colLetter, colLetter, width)
	}

	if len(campaigns) == 0 {
		f.SetCellValue(campaignSheet, "A2", "no campaigns found")
	}

	for j, c := range campaigns {
		row := make([]interface{}, 0, len(campaignColumns))
		row = append(row,
			c.ID, c.Name, c.Platform, c.Status,
			c.Budget, c.BudgetType, c.Currency,
			formatDate(c.DateRangeStart), formatDate(c.DateRangeEnd),
			c.Description, c.EnhanceWithAI,
			c.MediaFileURL, c.MediaFileURLs,
			c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339),
		)

		rowNum := j + 2
		start := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(campaignSheet, start, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}

		if strings.EqualFold(c.Status, models.CampaignStatusDraft) {
			f.SetCellStyle(campaignSheet, start, fmt.Sprintf("%s%d", columnToLetter(len(campaignColumns)), rowNum), draftStyle)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
