// internal/platform/ui/banner.go
package ui

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"

	"finsight/internal/core/ports"
)

// StartupInfo es la información mostrada en el banner de arranque.
type StartupInfo struct {
	Version  string
	Addr     string
	Sources  map[string]ports.SourceConfig
	Networks map[string]ports.NetworkConfig
}

// Banner renderiza el header de arranque del servicio con la tabla de
// fuentes y redes configuradas.
func Banner(info StartupInfo) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("finsight - Financial Data Aggregator")

	pterm.Println()
	pterm.DefaultSection.Println("Configuration")

	panel := pterm.DefaultBox.
		WithTitle("Server").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	panel.Println(fmt.Sprintf("Version: %s\nListen:  %s", pterm.Cyan(info.Version), pterm.Yellow(info.Addr)))

	pterm.Println()
	renderTable("News Sources", sourceRows(info.Sources))
	pterm.Println()
	renderTable("Ad Networks", networkRows(info.Networks))
	pterm.Println()
}

func renderTable(title string, rows [][]string) {
	pterm.DefaultSection.WithLevel(2).Println(title)

	data := pterm.TableData{{"Name", "Enabled", "Priority", "Auth"}}
	data = append(data, rows...)

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func sourceRows(sources map[string]ports.SourceConfig) [][]string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if sources[names[i]].Priority == sources[names[j]].Priority {
			return names[i] < names[j]
		}
		return sources[names[i]].Priority > sources[names[j]].Priority
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cfg := sources[name]
		rows = append(rows, []string{
			name,
			boolMark(cfg.Enabled),
			fmt.Sprint(cfg.Priority),
			boolMark(cfg.APIKey != ""),
		})
	}
	return rows
}

func networkRows(networks map[string]ports.NetworkConfig) [][]string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if networks[names[i]].Priority == networks[names[j]].Priority {
			return names[i] < names[j]
		}
		return networks[names[i]].Priority > networks[names[j]].Priority
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cfg := networks[name]
		rows = append(rows, []string{
			name,
			boolMark(cfg.Enabled),
			fmt.Sprint(cfg.Priority),
			boolMark(cfg.PublisherID != ""),
		})
	}
	return rows
}

func boolMark(b bool) string {
	if b {
		return pterm.Green("yes")
	}
	return pterm.Red("no")
}
