// ABOUTME: Export and import functionality for coach data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/coach/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for coach data.
type ExportData struct {
	Version    string       `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Tool       string       `json:"tool" yaml:"tool"`
	Plans      []ExportPlan `json:"plans" yaml:"plans"`
	Logs       []ExportLog  `json:"logs" yaml:"logs"`
}

// ExportPlan is one dated plan document with its modification metadata.
type ExportPlan struct {
	Date         string               `json:"date"`
	LastModified string               `json:"last_modified"`
	ModifiedBy   string               `json:"modified_by"`
	Plan         *models.PlanDocument `json:"plan"`
}

// ExportLog is one dated log document with its modification metadata.
type ExportLog struct {
	Date         string              `json:"date"`
	LastModified string              `json:"last_modified"`
	ModifiedBy   string              `json:"modified_by"`
	Log          *models.LogDocument `json:"log"`
}

// GetAllData assembles every stored plan and log for export.
func (d *DB) GetAllData() (*ExportData, error) {
	plans, err := d.PlansChangedSince("")
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	logs, err := d.LogsChangedSince("")
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "coach",
		Plans:      make([]ExportPlan, 0, len(plans)),
		Logs:       make([]ExportLog, 0, len(logs)),
	}
	for _, p := range plans {
		data.Plans = append(data.Plans, ExportPlan{
			Date:         p.Date,
			LastModified: p.LastModified,
			ModifiedBy:   p.ModifiedBy,
			Plan:         p.Plan,
		})
	}
	for _, l := range logs {
		data.Logs = append(data.Logs, ExportLog{
			Date:         l.Date,
			LastModified: l.LastModified,
			ModifiedBy:   l.ModifiedBy,
			Log:          l.Log,
		})
	}
	return data, nil
}

// ImportData writes exported documents back through the codec. Existing
// plans and logs for the same dates are replaced, and last_modified is
// re-stamped so sync clients pick the imported documents up.
func (d *DB) ImportData(data *ExportData) error {
	for _, p := range data.Plans {
		if err := models.ValidateDate(p.Date); err != nil {
			return fmt.Errorf("import plan %s: %w", p.Date, err)
		}
		if p.Plan == nil {
			return fmt.Errorf("import plan %s: missing document", p.Date)
		}
		if _, err := d.SavePlan(p.Date, p.Plan, "import"); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}
	for _, l := range data.Logs {
		if err := models.ValidateDate(l.Date); err != nil {
			return fmt.Errorf("import log %s: %w", l.Date, err)
		}
		if l.Log == nil {
			return fmt.Errorf("import log %s: missing document", l.Date)
		}
		if err := d.SaveLog(l.Date, l.Log, "import", UTCNow()); err != nil {
			return fmt.Errorf("import log: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML in a condensed, human-readable
// shape: plans list their blocks and exercise names, logs list what was
// completed.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string     `yaml:"version"`
		ExportedAt string     `yaml:"exported_at"`
		Tool       string     `yaml:"tool"`
		Plans      []yamlPlan `yaml:"plans"`
		Logs       []yamlLog  `yaml:"logs"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Plans:      make([]yamlPlan, 0, len(data.Plans)),
		Logs:       make([]yamlLog, 0, len(data.Logs)),
	}

	for _, p := range data.Plans {
		yp := yamlPlan{
			Date:     p.Date,
			DayName:  p.Plan.DayName,
			Location: p.Plan.Location,
			Phase:    p.Plan.Phase,
		}
		if p.Plan.TotalDurationMin != nil {
			yp.DurationMin = *p.Plan.TotalDurationMin
		}
		for _, b := range p.Plan.Blocks {
			yb := yamlBlock{Type: string(b.BlockType), Title: b.Title}
			for _, ex := range b.Exercises {
				yb.Exercises = append(yb.Exercises, fmt.Sprintf("%s (%s)", ex.Name, ex.ID))
			}
			yp.Blocks = append(yp.Blocks, yb)
		}
		yamlData.Plans = append(yamlData.Plans, yp)
	}

	for _, l := range data.Logs {
		yl := yamlLog{
			Date:  l.Date,
			Notes: l.Log.Feedback.GeneralNotes,
			Pain:  l.Log.Feedback.PainDiscomfort,
		}
		for key, entry := range l.Log.Exercises {
			if entry.Completed {
				yl.Completed = append(yl.Completed, key)
			}
		}
		sort.Strings(yl.Completed)
		yamlData.Logs = append(yamlData.Logs, yl)
	}

	return yaml.Marshal(yamlData)
}

type yamlPlan struct {
	Date        string      `yaml:"date"`
	DayName     string      `yaml:"day_name"`
	Location    string      `yaml:"location,omitempty"`
	Phase       string      `yaml:"phase,omitempty"`
	DurationMin int         `yaml:"duration_min,omitempty"`
	Blocks      []yamlBlock `yaml:"blocks"`
}

type yamlBlock struct {
	Type      string   `yaml:"type"`
	Title     string   `yaml:"title,omitempty"`
	Exercises []string `yaml:"exercises,omitempty"`
}

type yamlLog struct {
	Date      string   `yaml:"date"`
	Completed []string `yaml:"completed,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
	Pain      string   `yaml:"pain,omitempty"`
}

// ExportMarkdown exports plans and logs as Markdown tables. A non-empty
// since date (YYYY-MM-DD) limits both sections to that date onward.
func (d *DB) ExportMarkdown(since string) (string, error) {
	data, err := d.GetAllData()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Coach Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Plans\n\n")
	sb.WriteString("| Date | Day | Blocks | Exercises | Duration |\n")
	sb.WriteString("|------|-----|--------|-----------|----------|\n")
	for _, p := range data.Plans {
		if since != "" && p.Date < since {
			continue
		}
		exercises := 0
		for _, b := range p.Plan.Blocks {
			exercises += len(b.Exercises)
		}
		duration := ""
		if p.Plan.TotalDurationMin != nil {
			duration = fmt.Sprintf("%d min", *p.Plan.TotalDurationMin)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %s |\n",
			p.Date, p.Plan.DayName, len(p.Plan.Blocks), exercises, duration))
	}

	sb.WriteString("\n## Logs\n\n")
	sb.WriteString("| Date | Completed | Notes |\n")
	sb.WriteString("|------|-----------|-------|\n")
	for _, l := range data.Logs {
		if since != "" && l.Date < since {
			continue
		}
		completed := 0
		for _, entry := range l.Log.Exercises {
			if entry.Completed {
				completed++
			}
		}
		sb.WriteString(fmt.Sprintf("| %s | %d/%d | %s |\n",
			l.Date, completed, len(l.Log.Exercises), l.Log.Feedback.GeneralNotes))
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(&exportData)
}
