package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestReadRecord(t *testing.T) {
	dir := t.TempDir()

	bare := filepath.Join(dir, "bare.json")
	if err := os.WriteFile(bare, []byte(`{"skills": ["Go"], "profileText": "hi"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	wrapped := filepath.Join(dir, "wrapped.json")
	if err := os.WriteFile(wrapped, []byte(`{"cvData": {"skills": ["Go", "SQL"]}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	record, err := readRecord(bare, nil)
	if err != nil || len(record.Skills) != 1 || record.ProfileText != "hi" {
		t.Fatalf("bare record = %+v, %v", record, err)
	}

	record, err = readRecord(wrapped, nil)
	if err != nil || len(record.Skills) != 2 {
		t.Fatalf("wrapped record = %+v, %v", record, err)
	}

	record, err = readRecord("-", strings.NewReader(`{"experiences": [{"title": "Developer"}]}`))
	if err != nil || len(record.Experiences) != 1 {
		t.Fatalf("stdin record = %+v, %v", record, err)
	}

	record, err = readRecord("-", strings.NewReader(`{"cvData": {"education": [{"degree": "BSc", "year": 2020}], "skills": ["Go", 3]}}`))
	if err != nil || record.Education[0].Year != "2020" || record.Skills[1] != "3" {
		t.Fatalf("loosely typed record = %+v, %v", record, err)
	}

	for _, input := range []string{`[]`, `{"cvData": null}`} {
		if _, err := readRecord("-", strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %s", input)
		}
	}

	if _, err := readRecord("-", strings.NewReader("  ")); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := readRecord(filepath.Join(dir, "missing.json"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAnalysisModeFromFlags(t *testing.T) {
	cases := []struct {
		name    string
		args    map[string]string
		want    string
		wantErr bool
	}{
		{name: "explicit fallback", args: map[string]string{"mode": "Fallback"}, want: ModeFallback},
		{name: "explicit ai", args: map[string]string{"mode": "ai"}, want: ModeAI},
		{name: "auto approve", args: map[string]string{"auto-approve": "true"}, want: ModeAI},
		{name: "unknown", args: map[string]string{"mode": "magic"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "analyze"}
			cmd.Flags().StringP("mode", "m", "", "")
			cmd.Flags().BoolP("auto-approve", "y", false, "")
			for name, value := range tc.args {
				if err := cmd.Flags().Set(name, value); err != nil {
					t.Fatal(err)
				}
			}

			got, err := analysisMode(cmd)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("analysisMode = %q, %v; want %q", got, err, tc.want)
			}
		})
	}
}
