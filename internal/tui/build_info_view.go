// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/workshop-qa/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	rows := [][2]string{
		{"Application", "workshop-qa client"},
		{"Version", info.BuildVersion()},
		{"Date", info.BuildDate()},
		{"Commit", info.BuildCommit()},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-12s %s", row[0]+":", row[1]))
	}

	return renderPage("ABOUT", strings.Join(lines, "\n"), "esc: back")
}
