/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

// ScanPermissions enables the repository operations that can only be served by a full
// table scan. All of them are disabled by default.
type ScanPermissions struct {
	FindAllUnpaginatedScanEnabled   bool
	DeleteAllUnpaginatedScanEnabled bool
	CountUnpaginatedScanEnabled     bool
	FindAllPaginatedScanEnabled     bool
}

// AllScansEnabled permits every scan.
func AllScansEnabled() ScanPermissions {
	return ScanPermissions{
		FindAllUnpaginatedScanEnabled:   true,
		DeleteAllUnpaginatedScanEnabled: true,
		CountUnpaginatedScanEnabled:     true,
		FindAllPaginatedScanEnabled:     true,
	}
}
