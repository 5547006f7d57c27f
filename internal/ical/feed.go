// Package ical renders attendee itineraries as iCalendar feeds.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

const productID = "-//conference-hub//EN"

// Entry is one VEVENT in a feed: a session the attendee registered for or a
// confirmed meeting.
type Entry struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Feed is an attendee's itinerary.
type Feed struct {
	Name    string
	Entries []Entry
	// Now stamps DTSTAMP on every entry; zero uses the wall clock.
	Now time.Time
}

// Encode writes the feed in iCalendar format.
func Encode(w io.Writer, feed Feed) error {
	stamp := feed.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if feed.Name != "" {
		nameProp := ical.NewProp("X-WR-CALNAME")
		nameProp.SetText(feed.Name)
		cal.Props.Add(nameProp)
	}

	for _, entry := range feed.Entries {
		ve, err := toComponent(entry, stamp)
		if err != nil {
			return err
		}
		cal.Children = append(cal.Children, ve)
	}

	return ical.NewEncoder(w).Encode(cal)
}

func toComponent(entry Entry, stamp time.Time) (*ical.Component, error) {
	if entry.UID == "" {
		return nil, fmt.Errorf("ical: entry is missing a uid")
	}
	if !entry.Start.Before(entry.End) {
		return nil, fmt.Errorf("ical: entry %s has an invalid interval", entry.UID)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, entry.UID)
	ve.Props.SetText(ical.PropSummary, entry.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, entry.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, entry.End.UTC())

	if entry.Description != "" {
		ve.Props.SetText(ical.PropDescription, entry.Description)
	}
	if entry.Location != "" {
		ve.Props.SetText(ical.PropLocation, entry.Location)
	}
	return ve, nil
}
