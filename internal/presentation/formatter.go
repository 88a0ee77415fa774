package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a formatter writing format ("json" or "table") to writer.
func NewFormatter(writer io.Writer, format string) (*Formatter, error) {
	switch format {
	case FormatJSON, FormatTable:
	case "":
		format = FormatTable
	default:
		return nil, fmt.Errorf("unknown format %q (want %q or %q)", format, FormatJSON, FormatTable)
	}
	return &Formatter{writer: writer, format: format}, nil
}

// FormatSelections writes one row per selection.
func (f *Formatter) FormatSelections(rows []SelectionDTO) error {
	if f.format == FormatJSON {
		return f.json(rows)
	}
	t := newTable("GUID", "ENTRY", "NAME", "AI", "SOURCE", "MOVEMENT")
	for _, r := range rows {
		t.Row(r.GUID, strconv.FormatUint(uint64(r.Entry), 10), r.Name, r.AI, r.Source, movementCell(r))
	}
	return f.table(t)
}

// FormatSimulations writes one row per creature tick.
func (f *Formatter) FormatSimulations(sims []SimulationDTO) error {
	if f.format == FormatJSON {
		return f.json(sims)
	}
	t := newTable("GUID", "NAME", "AI", "TICK", "INTENT", "MOVEMENT")
	for _, sim := range sims {
		for _, tick := range sim.Ticks {
			t.Row(sim.GUID, sim.Name, sim.AI, strconv.Itoa(tick.N), tick.Intent, stepCell(sim, tick))
		}
	}
	return f.table(t)
}

// FormatFactories writes the registry listing.
func (f *Formatter) FormatFactories(factories []FactoryDTO) error {
	if f.format == FormatJSON {
		return f.json(factories)
	}
	t := newTable("KIND", "KEY", "SELECTABLE")
	for _, fa := range factories {
		t.Row(fa.Kind, fa.Key, strconv.FormatBool(fa.Selectable))
	}
	return f.table(t)
}

func (f *Formatter) json(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) table(t *table.Table) error {
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func movementCell(r SelectionDTO) string {
	if !r.MovementFound {
		return mutedStyle.Render(r.Movement + " (none)")
	}
	return r.Movement
}

func stepCell(sim SimulationDTO, tick TickDTO) string {
	switch {
	case !sim.MovementFound:
		return "-"
	case tick.Follow != "":
		return sim.Movement + " -> " + tick.Follow
	case tick.Point != nil:
		return fmt.Sprintf("%s (%.1f, %.1f, %.1f)", sim.Movement, tick.Point.X, tick.Point.Y, tick.Point.Z)
	default:
		return sim.Movement
	}
}
