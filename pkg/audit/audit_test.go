package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := RunEvent{
		RunID:   42,
		Trigger: "schedule",
		Rows:    2,
		Success: true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "rankwatch") {
		t.Error("Expected app name 'rankwatch' in output")
	}
	if !strings.Contains(output, " run ") {
		t.Error("Expected message ID 'run' in output")
	}
	if !strings.Contains(output, `id="42"`) {
		t.Error("Expected run ID in structured data")
	}
	if !strings.Contains(output, "collected 2 rows") {
		t.Error("Expected success message in output")
	}
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected PRI prefix in output")
	}
}

func TestRunEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     RunEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful scheduled run",
			event: RunEvent{
				RunID:   1,
				Trigger: "schedule",
				Rows:    3,
				Success: true,
			},
			wantMsg:   "collected 3 rows",
			wantSev:   SeverityInfo,
			wantFac:   FacilityDaemon,
			wantMsgID: "run",
		},
		{
			name: "failed manual run",
			event: RunEvent{
				RunID:        2,
				Trigger:      "manual",
				Success:      false,
				ErrorMessage: "sheet append rejected",
			},
			wantMsg:   "failed: sheet append rejected",
			wantSev:   SeverityError,
			wantFac:   FacilityUser,
			wantMsgID: "run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestFetchEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   FetchEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "successful fetch",
			event: FetchEvent{
				RunID:      1,
				TargetSlug: "paper",
				URL:        "https://www.amazon.co.jp/dp/4000000000",
				Fetcher:    "http",
				Success:    true,
			},
			wantMsg: "fetched paper",
			wantSev: SeverityInfo,
		},
		{
			name: "failed fetch",
			event: FetchEvent{
				RunID:        1,
				TargetSlug:   "kindle",
				Success:      false,
				ErrorMessage: "unexpected status 503",
			},
			wantMsg: "failed to fetch kindle: unexpected status 503",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
		})
	}
}

func TestAppendEvent(t *testing.T) {
	ok := AppendEvent{RunID: 5, Worksheet: "rank", Cells: 7, Success: true}
	if !strings.Contains(ok.Message(), "appended 7 cells to rank") {
		t.Errorf("Message() = %q", ok.Message())
	}
	if ok.Severity() != SeverityInfo {
		t.Errorf("Severity() = %v, want %v", ok.Severity(), SeverityInfo)
	}

	failed := AppendEvent{RunID: 5, Worksheet: "rank", Success: false, ErrorMessage: "quota"}
	if !strings.Contains(failed.Message(), "failed to append to rank: quota") {
		t.Errorf("Message() = %q", failed.Message())
	}
	if failed.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", failed.Severity(), SeverityError)
	}
}

func TestArtifactEvent(t *testing.T) {
	event := ArtifactEvent{RunID: 3, Name: "debug.png", SizeBytes: 1024, Success: true}
	if !strings.Contains(event.Message(), "captured artifact debug.png (1024 bytes)") {
		t.Errorf("Message() = %q", event.Message())
	}

	sd := event.StructuredData()
	if sd[SDIDAction]["name"] != "debug.png" {
		t.Errorf("StructuredData() name = %q", sd[SDIDAction]["name"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData() result = %q", sd[SDIDAction]["result"])
	}
}

func TestEscapeSDValue(t *testing.T) {
	got := escapeSDValue(`a"b\c]d`)
	want := `"a\"b\\c\]d"`
	if got != want {
		t.Errorf("escapeSDValue() = %q, want %q", got, want)
	}
}
