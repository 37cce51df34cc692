package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
)

const productID = "-//tithi-calendar//moon phases//EN"

var phaseTitles = map[astronomy.NamedPhase]string{
	astronomy.NewMoon:      "New moon",
	astronomy.FirstQuarter: "First quarter",
	astronomy.FullMoon:     "Full moon",
	astronomy.LastQuarter:  "Last quarter",
}

// Exporter renders named-phase days as an iCalendar feed.
type Exporter struct {
	clock func() time.Time
}

// NewExporter builds an Exporter. A nil clock falls back to time.Now.
func NewExporter(clock func() time.Time) *Exporter {
	if clock == nil {
		clock = time.Now
	}
	return &Exporter{clock: clock}
}

// Encode writes one all-day VEVENT per record that carries a named phase.
// Records without a phase are skipped. The label ends up in every event description.
func (e *Exporter) Encode(records []astronomy.DailyRecord, label string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if label != "" {
		cal.SetXWRCalName(fmt.Sprintf("Moon phases (%s)", label))
	}

	stamp := e.clock().UTC()
	for _, record := range records {
		if record.Phase == nil {
			continue
		}
		day := astronomy.CivilDate(record.Date)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		event := cal.AddEvent(eventUID(day, *record.Phase, label))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(phaseTitle(*record.Phase))
		event.SetDescription(describe(record, label))
	}
	return cal.Serialize()
}

func phaseTitle(phase astronomy.NamedPhase) string {
	if title, ok := phaseTitles[phase]; ok {
		return title
	}
	return string(phase)
}

func eventUID(day time.Time, phase astronomy.NamedPhase, label string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(label), "-"))
	if slug == "" {
		slug = "calendar"
	}
	return fmt.Sprintf("%s-%s-%s@tithi-calendar", astronomy.FormatDate(day), strings.ToLower(string(phase)), slug)
}

func describe(record astronomy.DailyRecord, label string) string {
	parts := []string{fmt.Sprintf("Illumination %d%%", record.PercentageVisible)}
	if record.Moonrise != nil {
		parts = append(parts, "moonrise "+*record.Moonrise)
	}
	if record.Moonset != nil {
		parts = append(parts, "moonset "+*record.Moonset)
	}
	if label != "" {
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
