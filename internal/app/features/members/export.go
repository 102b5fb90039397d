// internal/app/features/members/export.go
package members

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/format"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Members"

var exportHeader = []any{
	"First Name", "Last Name", "Email", "Phone", "Membership", "Status",
	"Join Date", "Expiry Date", "Auto Renewal", "Emergency Contact",
}

// ServeExport handles GET /members/export. It honors the list page's
// search and sort so the spreadsheet matches what staff were looking at.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctl, _, ok := h.load(w, r)
	if !ok {
		return
	}
	defer ctl.Dispose()

	st := ctl.State()
	if st.Phase != listctl.Loaded {
		h.SM.AddFlash(w, r, auth.FlashError, "Export failed: "+st.ErrorMessage)
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}
	rows := listpage.Select(search.FromRequest(r), st.Items, listOptions)

	filename := fmt.Sprintf("members-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := writeWorkbook(w, rows); err != nil {
		h.Log.Error("write members workbook", zap.Error(err))
		return
	}
	h.AuditLog.MembersExported(r.Context(), r, len(rows))
}

// writeWorkbook writes members as a one-sheet XLSX workbook.
func writeWorkbook(out io.Writer, members []models.Member) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		renew := "No"
		if m.AutoRenewal {
			renew = "Yes"
		}
		row := []any{
			m.FirstName, m.LastName, m.Email, m.Phone, m.MembershipType, m.Status,
			format.InputValue(m.JoinDate), format.InputValue(m.ExpiryDate), renew, m.EmergencyContact,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "J", 18); err != nil {
		return err
	}
	_, err = f.WriteTo(out)
	return err
}
