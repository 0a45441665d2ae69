package validation

import "testing"

func TestValidateExportPathAccepted(t *testing.T) {
	v := NewPathValidator()
	for _, path := range []string{"results.csv", "out/results.xlsx", "Report.CSV"} {
		if err := v.ValidateExportPath(path); err != nil {
			t.Errorf("Expected %q to pass, got %v", path, err)
		}
	}
}

func TestValidateExportPathRejected(t *testing.T) {
	v := NewPathValidator()
	for _, path := range []string{"", "   ", "results", "results.json", "results.xls"} {
		if err := v.ValidateExportPath(path); err == nil {
			t.Errorf("Expected %q to be rejected", path)
		}
	}
}

func TestValidateExportPathCustomExtensions(t *testing.T) {
	v := NewPathValidatorWithExtensions([]string{".tsv"})
	if err := v.ValidateExportPath("out.tsv"); err != nil {
		t.Errorf("Expected .tsv to pass with custom extensions, got %v", err)
	}
	if err := v.ValidateExportPath("out.csv"); err == nil {
		t.Error("Expected .csv to be rejected with custom extensions")
	}
}
