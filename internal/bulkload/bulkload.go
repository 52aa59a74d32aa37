// Package bulkload implements the CSV import/export used to seed the
// registry from legacy district records and to hand extracts to auditors.
package bulkload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"business-verification-portal/internal/models"
	errs "business-verification-portal/pkg/errors"
)

// Column order for both import and export. Import requires the first
// three; the rest may be blank.
var header = []string{
	"id", "name", "registration_number", "category", "status",
	"address", "city", "region", "phone", "email", "owner_name", "employee_count",
}

// RowError describes one rejected row. Line numbers are 1-based and
// include the header line, matching what the operator sees in a text
// editor.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Import parses registry rows from CSV. Malformed rows are collected as
// RowErrors rather than aborting the batch; the returned businesses are
// the parseable remainder. A bad header fails the whole import.
func Import(r io.Reader) ([]models.Business, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, nil, errs.NewValidation("bulkload.Import", "cannot read CSV header", err)
	}
	if err := checkHeader(head); err != nil {
		return nil, nil, err
	}

	var businesses []models.Business
	var rowErrs []RowError
	line := 1
	seen := make(map[string]int)
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}

		b, reason := parseRow(record)
		if reason != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: reason})
			continue
		}
		if prev, dup := seen[b.ID]; dup {
			rowErrs = append(rowErrs, RowError{Line: line,
				Reason: fmt.Sprintf("duplicate id %q (first seen on line %d)", b.ID, prev)})
			continue
		}
		seen[b.ID] = line
		businesses = append(businesses, b)
	}

	return businesses, rowErrs, nil
}

func checkHeader(head []string) error {
	if len(head) < 3 {
		return errs.NewValidation("bulkload.Import",
			fmt.Sprintf("header has %d columns, need at least id,name,registration_number", len(head)), nil)
	}
	for i, want := range header[:3] {
		if strings.TrimSpace(strings.ToLower(head[i])) != want {
			return errs.NewValidation("bulkload.Import",
				fmt.Sprintf("header column %d is %q, want %q", i+1, head[i], want), nil)
		}
	}
	return nil
}

func parseRow(record []string) (models.Business, string) {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	b := models.Business{
		ID:                 get(0),
		Name:               get(1),
		RegistrationNumber: get(2),
		Status:             get(4),
	}
	switch {
	case b.ID == "":
		return b, "missing id"
	case b.Name == "":
		return b, "missing name"
	case b.RegistrationNumber == "":
		return b, "missing registration_number"
	}
	if b.Status == "" {
		b.Status = models.StatusPending
	} else if !validStatus(b.Status) {
		return b, fmt.Sprintf("unknown status %q", b.Status)
	}

	setOpt := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setOpt(&b.Category, get(3))
	setOpt(&b.Address, get(5))
	setOpt(&b.City, get(6))
	setOpt(&b.Region, get(7))
	setOpt(&b.Phone, get(8))
	setOpt(&b.Email, get(9))
	setOpt(&b.OwnerName, get(10))

	if raw := get(11); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return b, fmt.Sprintf("bad employee_count %q", raw)
		}
		b.EmployeeCount = &n
	}

	return b, ""
}

func validStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusVerified, models.StatusSuspended, models.StatusRejected:
		return true
	}
	return false
}

// Export writes businesses as CSV in the import column order, so an
// export can be re-imported unchanged.
func Export(w io.Writer, businesses []models.Business) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errs.NewValidation("bulkload.Export", "cannot write CSV header", err)
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	for i := range businesses {
		b := &businesses[i]
		count := ""
		if b.EmployeeCount != nil {
			count = strconv.Itoa(*b.EmployeeCount)
		}
		row := []string{
			b.ID, b.Name, b.RegistrationNumber, str(b.Category), b.Status,
			str(b.Address), str(b.City), str(b.Region), str(b.Phone), str(b.Email),
			str(b.OwnerName), count,
		}
		if err := cw.Write(row); err != nil {
			return errs.NewValidation("bulkload.Export", fmt.Sprintf("cannot write row for %s", b.ID), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
