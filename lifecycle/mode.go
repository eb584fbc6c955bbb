/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package lifecycle

import (
	"fmt"
	"strings"

	"github.com/suparena/dynarepo/errors"
)

// Mode is the table policy applied when the owning process starts and stops.
type Mode string

const (
	// ModeNone leaves tables alone.
	ModeNone Mode = "NONE"
	// ModeCreate drops an existing table and creates it on start, and drops it on stop.
	ModeCreate Mode = "CREATE"
	// ModeCreateOnly creates the table on start.
	ModeCreateOnly Mode = "CREATE_ONLY"
	// ModeDrop drops the table on stop.
	ModeDrop Mode = "DROP"
	// ModeCreateDrop creates the table on start and drops it on stop, without dropping first.
	ModeCreateDrop Mode = "CREATE_DROP"
)

// ParseMode accepts none, create, create-only, drop and create-drop in any case, with
// '-' or '_' as separator. The empty string is ModeNone.
func ParseMode(s string) (Mode, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if normalized == "" {
		return ModeNone, nil
	}
	switch m := Mode(normalized); m {
	case ModeNone, ModeCreate, ModeCreateOnly, ModeDrop, ModeCreateDrop:
		return m, nil
	}
	return "", errors.NewIllegalArgumentError("mode", fmt.Sprintf("unknown entity2ddl mode %q", s))
}

func (m Mode) createsOnStart() bool {
	return m == ModeCreate || m == ModeCreateOnly || m == ModeCreateDrop
}

func (m Mode) dropsOnStop() bool {
	return m == ModeCreate || m == ModeDrop || m == ModeCreateDrop
}

func (m Mode) String() string {
	return strings.ToLower(strings.ReplaceAll(string(m), "_", "-"))
}
