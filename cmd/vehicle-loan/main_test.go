package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/store"
	"github.com/iwvelando/vehicle-loan/pkg/testutil"
)

const portfolioYAML = `logging:
  level: error
output:
  format: pretty
store:
  path: %q
loans:
  - name: Civic
    startDate: "2025-01-15"
    principal: 30000
    downPayment: 5000
    interestRate: 6.0
    term: 60
    extraPayments:
      - date: "2025-07-15"
        amount: 5000
  - name: Motorcycle
    startDate: "2024-06"
    principal: 9000
    interestRate: 0
    term: 36
`

func writePortfolio(t *testing.T, storePath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(portfolioYAML, storePath)), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

var fixedClock = datetime.FixedClock{T: testutil.Date(2026, time.January, 20)}

func TestRunPretty(t *testing.T) {
	path := writePortfolio(t, "")

	var stdout bytes.Buffer
	if err := run([]string{"-config", path}, &stdout, fixedClock); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"--- Loan Civic (as of 2026-01-20) ---",
		"--- Loan Motorcycle (as of 2026-01-20) ---",
		"Monthly payment      | $579.98",
		"Monthly payment      | $250.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunCSVWithNowOverride(t *testing.T) {
	path := writePortfolio(t, "")

	var stdout bytes.Buffer
	args := []string{"-config", path, "-output-format", "csv", "-now", "2025-03-01"}
	if err := run(args, &stdout, fixedClock); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if lines[0] != "loan,month,date,payment,principal,interest,balance" {
		t.Fatalf("unexpected CSV header %q", lines[0])
	}
	// 50 Civic months with the extra payment plus 36 Motorcycle months
	if len(lines) != 1+50+36 {
		t.Fatalf("expected %d CSV lines, got %d", 1+50+36, len(lines))
	}
}

func TestRunSyncsStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "loans.db")
	path := writePortfolio(t, dbPath)

	for i := 0; i < 2; i++ {
		var stdout bytes.Buffer
		if err := run([]string{"-config", path}, &stdout, fixedClock); err != nil {
			t.Fatalf("run %d error = %v", i+1, err)
		}
	}

	storage, err := store.NewSQLiteStore(nil, dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer storage.Close()

	stored, err := storage.ListLoans()
	if err != nil {
		t.Fatalf("ListLoans() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected repeated runs to upsert 2 loans, got %d", len(stored))
	}
	if stored[1].Name != "Civic" || len(stored[1].ExtraPayments) != 1 {
		t.Fatalf("unexpected stored Civic loan %+v", stored[1])
	}
}

func TestRunErrors(t *testing.T) {
	path := writePortfolio(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}},
		{"bad output format", []string{"-config", path, "-output-format", "xml"}},
		{"bad log level", []string{"-config", path, "-log-level", "trace"}},
		{"bad now", []string{"-config", path, "-now", "tomorrow"}},
		{"unknown flag", []string{"-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			if err := run(tt.args, &stdout, fixedClock); err == nil {
				t.Fatal("run() expected error")
			}
		})
	}
}

func TestRunExampleConfig(t *testing.T) {
	var stdout bytes.Buffer
	args := []string{"-config", filepath.Join("..", "..", "config.yaml.example"), "-log-level", "error"}
	if err := run(args, &stdout, fixedClock); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "--- Loan Civic") {
		t.Errorf("expected the example Civic loan in the output")
	}
}
