package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	helper "pmb_backend/internals/helpers"
)

// UTF-8 BOM supaya Excel membaca huruf non-ASCII dengan benar.
const utf8BOM = "\xEF\xBB\xBF"

var ExportHeader = []string{
	"No", "Nama Referrer", "Tipe", "Nama Bank", "No Rekening", "Atas Nama",
	"Jumlah", "Kandidat", "Trigger Event", "Tanggal Approve",
}

// ExportRows: semua komisi sesuai filter, urut tanggal approve lalu dibuat.
func (s *CommissionService) ExportRows(f ListFilter) ([]CommissionRow, error) {
	p := helper.Params{Page: 1, PerPage: helper.ExportOpts.AllHardCap, SortBy: "approved_at", SortOrder: "asc"}
	rows, _, err := s.List(f, p)
	return rows, err
}

// ExportFilename: komisi-<status>-YYYYMMDD.csv
func ExportFilename(status string, now time.Time) string {
	if status == "" {
		status = "semua"
	}
	return fmt.Sprintf("komisi-%s-%s.csv", status, now.In(helper.Jakarta()).Format("20060102"))
}

// WriteCSV menulis BOM + header tetap + satu baris per komisi.
func WriteCSV(w io.Writer, rows []CommissionRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for i, r := range rows {
		approved := ""
		if r.CommissionApprovedAt != nil {
			approved = r.CommissionApprovedAt.In(helper.Jakarta()).Format("2006-01-02")
		}
		rec := []string{
			strconv.Itoa(i + 1),
			r.ReferrerName,
			referrerModel.TypeLabel(r.ReferrerType),
			deref(r.BankName),
			deref(r.BankAccountNumber),
			deref(r.BankAccountName),
			strconv.FormatInt(r.CommissionAmount, 10),
			r.CandidateName,
			r.CommissionTriggerEvent,
			approved,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
