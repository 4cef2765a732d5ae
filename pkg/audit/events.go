package audit

import "fmt"

// RunEvent represents a collection run lifecycle audit event
type RunEvent struct {
	RunID        int64
	Trigger      string
	Rows         int
	Success      bool
	ErrorMessage string
}

func (e RunEvent) MessageID() string {
	return "run"
}

func (e RunEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("run %d (%s) collected %d rows", e.RunID, e.Trigger, e.Rows)
	}
	msg := fmt.Sprintf("run %d (%s) failed", e.RunID, e.Trigger)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RunEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e RunEvent) Facility() int {
	if e.Trigger == "manual" {
		return FacilityUser
	}
	return FacilityDaemon
}

func (e RunEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRun: {
			"id":      fmt.Sprintf("%d", e.RunID),
			"trigger": e.Trigger,
			"rows":    fmt.Sprintf("%d", e.Rows),
		},
		SDIDAction: {
			"operation": "run",
			"result":    result,
		},
	}
}

// FetchEvent represents a page fetch audit event
type FetchEvent struct {
	RunID        int64
	TargetSlug   string
	URL          string
	Fetcher      string
	Success      bool
	ErrorMessage string
}

func (e FetchEvent) MessageID() string {
	return "fetch"
}

func (e FetchEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("run %d fetched %s", e.RunID, e.TargetSlug)
	}
	msg := fmt.Sprintf("run %d failed to fetch %s", e.RunID, e.TargetSlug)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e FetchEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e FetchEvent) Facility() int {
	return FacilityDaemon
}

func (e FetchEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRun: {
			"id": fmt.Sprintf("%d", e.RunID),
		},
		SDIDTarget: {
			"slug": e.TargetSlug,
			"url":  e.URL,
		},
		SDIDAction: {
			"operation": "fetch",
			"engine":    e.Fetcher,
			"result":    result,
		},
	}
}

// AppendEvent represents a sheet append audit event
type AppendEvent struct {
	RunID         int64
	SpreadsheetID string
	Worksheet     string
	Cells         int
	Success       bool
	ErrorMessage  string
}

func (e AppendEvent) MessageID() string {
	return "append"
}

func (e AppendEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("run %d appended %d cells to %s", e.RunID, e.Cells, e.Worksheet)
	}
	msg := fmt.Sprintf("run %d failed to append to %s", e.RunID, e.Worksheet)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AppendEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e AppendEvent) Facility() int {
	return FacilityDaemon
}

func (e AppendEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRun: {
			"id": fmt.Sprintf("%d", e.RunID),
		},
		SDIDSheet: {
			"spreadsheet": e.SpreadsheetID,
			"worksheet":   e.Worksheet,
			"cells":       fmt.Sprintf("%d", e.Cells),
		},
		SDIDAction: {
			"operation": "append",
			"result":    result,
		},
	}
}

// ArtifactEvent represents an artifact capture audit event
type ArtifactEvent struct {
	RunID        int64
	Name         string
	SizeBytes    int64
	Success      bool
	ErrorMessage string
}

func (e ArtifactEvent) MessageID() string {
	return "artifact"
}

func (e ArtifactEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("run %d captured artifact %s (%d bytes)", e.RunID, e.Name, e.SizeBytes)
	}
	msg := fmt.Sprintf("run %d failed to capture artifact %s", e.RunID, e.Name)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ArtifactEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ArtifactEvent) Facility() int {
	return FacilityDaemon
}

func (e ArtifactEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDRun: {
			"id": fmt.Sprintf("%d", e.RunID),
		},
		SDIDAction: {
			"operation": "artifact",
			"name":      e.Name,
			"size":      fmt.Sprintf("%d", e.SizeBytes),
			"result":    result,
		},
	}
}
