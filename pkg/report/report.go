// Package report renders an engine.ExecutionPlan for people and machines.
// It reads the plan only through its accessors.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/reportgc/pkg/engine"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Renderer stamps reports with an ID and time; both are injectable for tests.
type Renderer struct {
	Now   func() time.Time
	NewID func() string
}

func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now, NewID: uuid.NewString}
}

// Envelope is the JSON document written for FormatJSON.
type Envelope struct {
	ReportID    string                `json:"report_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Plan        *engine.ExecutionPlan `json:"plan"`
}

func (r *Renderer) Render(w io.Writer, plan *engine.ExecutionPlan, f Format) error {
	switch f {
	case FormatText:
		return renderText(w, newView(plan, r.Now()))
	case FormatMarkdown:
		_, err := io.WriteString(w, renderMarkdown(newView(plan, r.Now())))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Envelope{ReportID: r.NewID(), GeneratedAt: r.Now().UTC(), Plan: plan})
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}

// Render uses a renderer with the wall clock and random report IDs.
func Render(w io.Writer, plan *engine.ExecutionPlan, f Format) error {
	return NewRenderer().Render(w, plan, f)
}

type tierView struct {
	Level engine.RiskLevel
	Hours int
	Items []engine.PlanItem
}

type planView struct {
	Generated  string
	Grade      engine.Grade
	Effort     int
	KEV        int
	Total      int
	Skipped    int
	Duplicates int
	Tiers      []tierView
}

func newView(plan *engine.ExecutionPlan, now time.Time) planView {
	v := planView{
		Generated:  now.Format("2006-01-02 15:04:05"),
		Grade:      plan.Grade(),
		Effort:     plan.TotalEffortHours(),
		KEV:        plan.KEVCount(),
		Total:      plan.Total(),
		Skipped:    plan.Skipped(),
		Duplicates: plan.Duplicates(),
	}
	for _, l := range engine.Levels() {
		v.Tiers = append(v.Tiers, tierView{
			Level: l,
			Hours: plan.TierEffortHours(l),
			Items: plan.Tier(l),
		})
	}
	return v
}
