// Package ics renders a task list as an RFC 5545 calendar so it can be
// imported into Google Calendar, Apple Calendar and friends.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kidandcat/vatrack/internal/model"
)

const prodID = "-//vatrack//VA Tracker//EN"

// Write emits one VEVENT per task that has a due timestamp. Tasks without
// one are skipped. The event spans an hour from the due time.
func Write(w io.Writer, tasks []model.Task, now time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:VA Tasks",
	}
	stamp := formatICSTime(now)

	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		start := *t.DueAt
		end := start.Add(time.Hour)

		desc := fmt.Sprintf("Status: %s\nPriority: %s", t.Status, t.Priority)
		if t.Notes != "" {
			desc += "\nNotes: " + t.Notes
		}

		status := "CONFIRMED"
		if t.Status == model.StatusDone {
			status = "COMPLETED"
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+t.ID+"@vatrack",
			"DTSTAMP:"+stamp,
			"DTSTART:"+formatICSTime(start),
			"DTEND:"+formatICSTime(end),
			"SUMMARY:"+escape(t.Title),
			"DESCRIPTION:"+escape(desc),
			"STATUS:"+status,
			"PRIORITY:"+priorityNumber(t.Priority),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	_, err := io.WriteString(w, strings.Join(lines, "\r\n")+"\r\n")
	return err
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

func priorityNumber(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return "1"
	case model.PriorityHigh:
		return "2"
	case model.PriorityLow:
		return "7"
	default:
		return "5"
	}
}
