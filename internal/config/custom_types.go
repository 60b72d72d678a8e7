// Package config handles application configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FlexBool is a boolean type that can be unmarshalled from a boolean, a
// string, or a number.
type FlexBool bool

// UnmarshalYAML implements the yaml.Unmarshaler interface for FlexBool.
func (fb *FlexBool) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*fb = FlexBool(b)
	case "!!str":
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return fmt.Errorf("cannot unmarshal string %q into FlexBool", value.Value)
		}
		*fb = FlexBool(b)
	case "!!int":
		i, err := strconv.Atoi(value.Value)
		if err != nil {
			return err
		}
		*fb = FlexBool(i != 0)
	default:
		return fmt.Errorf("cannot unmarshal %s into FlexBool", value.Tag)
	}
	return nil
}

// ClockTime is a time-of-day value unmarshalled from an "HH:MM" string.
type ClockTime struct {
	Hour   int
	Minute int
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for ClockTime.
func (ct *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	parts := strings.SplitN(value.Value, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("cannot unmarshal %q into ClockTime, want HH:MM", value.Value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in ClockTime %q", value.Value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute in ClockTime %q", value.Value)
	}
	ct.Hour = hour
	ct.Minute = minute
	return nil
}

// Before reports whether the clock time falls strictly before t's
// time-of-day.
func (ct ClockTime) Before(t time.Time) bool {
	return ct.Hour*60+ct.Minute < t.Hour()*60+t.Minute()
}

// After reports whether the clock time falls strictly after t's
// time-of-day.
func (ct ClockTime) After(t time.Time) bool {
	return ct.Hour*60+ct.Minute > t.Hour()*60+t.Minute()
}

// String returns the HH:MM representation.
func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute)
}

// Date is a calendar date unmarshalled from a "YYYY-MM-DD" string.
type Date time.Time

// UnmarshalYAML implements the yaml.Unmarshaler interface for Date.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %q into Date, want YYYY-MM-DD: %w", value.Value, err)
	}
	*d = Date(t)
	return nil
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}
