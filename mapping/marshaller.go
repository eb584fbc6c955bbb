/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
)

// Marshaller converts a property value to and from its stored string form.
type Marshaller interface {
	Marshal(v any) (string, error)
	Unmarshal(s string) (any, error)
}

// ISODateTimeMarshaller stores time.Time and strfmt.DateTime values as RFC 3339 strings.
// Unmarshal yields time.Time.
type ISODateTimeMarshaller struct{}

func (ISODateTimeMarshaller) Marshal(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return strfmt.DateTime(t.UTC()).String(), nil
	case strfmt.DateTime:
		return strfmt.DateTime(time.Time(t).UTC()).String(), nil
	}
	return "", fmt.Errorf("cannot marshal %T as date time", v)
}

func (ISODateTimeMarshaller) Unmarshal(s string) (any, error) {
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date time %q: %w", s, err)
	}
	return time.Time(dt), nil
}

// EpochMarshaller stores time.Time values as seconds since the Unix epoch.
type EpochMarshaller struct{}

func (EpochMarshaller) Marshal(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10), nil
	case strfmt.DateTime:
		return strconv.FormatInt(time.Time(t).Unix(), 10), nil
	}
	return "", fmt.Errorf("cannot marshal %T as epoch", v)
}

func (EpochMarshaller) Unmarshal(s string) (any, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse epoch %q: %w", s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}
