package bulkload

import (
	"bytes"
	"strings"
	"testing"

	"business-verification-portal/internal/models"
)

const sampleCSV = `id,name,registration_number,category,status,address,city,region,phone,email,owner_name,employee_count
b1,ABC Enterprises,REG-001,retail,pending,12 High St,Accra,Greater Accra,0302123456,abc@example.com,Ama Boateng,12
b2,XYZ Traders,REG-002,,verified,,,,,,,
`

func TestImport(t *testing.T) {
	businesses, rowErrs, err := Import(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("row errors: %v", rowErrs)
	}
	if len(businesses) != 2 {
		t.Fatalf("got %d businesses, want 2", len(businesses))
	}

	b := businesses[0]
	if b.ID != "b1" || b.Name != "ABC Enterprises" || b.RegistrationNumber != "REG-001" {
		t.Errorf("first row = %+v", b)
	}
	if b.Category == nil || *b.Category != "retail" {
		t.Errorf("category = %v", b.Category)
	}
	if b.EmployeeCount == nil || *b.EmployeeCount != 12 {
		t.Errorf("employee_count = %v", b.EmployeeCount)
	}

	if businesses[1].Status != models.StatusVerified {
		t.Errorf("second row status = %q", businesses[1].Status)
	}
	if businesses[1].Address != nil {
		t.Errorf("blank address should stay nil, got %v", *businesses[1].Address)
	}
}

func TestImportCollectsRowErrors(t *testing.T) {
	csv := `id,name,registration_number
b1,Good Business,REG-001
,Missing ID,REG-002
b3,,REG-003
b1,Duplicate,REG-004
b5,Bad Status Business,REG-005
`
	businesses, rowErrs, err := Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(businesses) != 2 {
		t.Fatalf("got %d businesses, want 2 (b1 and b5)", len(businesses))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("got %d row errors, want 3: %v", len(rowErrs), rowErrs)
	}
	// Line numbers include the header.
	if rowErrs[0].Line != 3 || !strings.Contains(rowErrs[0].Reason, "missing id") {
		t.Errorf("first error = %v", rowErrs[0])
	}
	if !strings.Contains(rowErrs[2].Reason, "duplicate id") {
		t.Errorf("third error = %v", rowErrs[2])
	}
}

func TestImportRejectsBadHeader(t *testing.T) {
	if _, _, err := Import(strings.NewReader("name,id\nfoo,bar\n")); err == nil {
		t.Fatal("expected header error")
	}
	if _, _, err := Import(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestExportRoundTrip(t *testing.T) {
	city := "Kumasi"
	count := 4
	in := []models.Business{
		{ID: "b1", Name: "Round Trip Ltd", RegistrationNumber: "REG-9",
			Status: models.StatusPending, City: &city, EmployeeCount: &count},
	}

	var buf bytes.Buffer
	if err := Export(&buf, in); err != nil {
		t.Fatalf("Export: %v", err)
	}

	out, rowErrs, err := Import(&buf)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("re-import: err=%v rowErrs=%v", err, rowErrs)
	}
	if len(out) != 1 {
		t.Fatalf("got %d businesses", len(out))
	}
	got := out[0]
	if got.ID != "b1" || got.Name != "Round Trip Ltd" || got.Status != models.StatusPending {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.City == nil || *got.City != "Kumasi" || got.EmployeeCount == nil || *got.EmployeeCount != 4 {
		t.Errorf("optional fields lost: %+v", got)
	}
}
