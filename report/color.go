package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

const NoDataNotice = "No data for the current filters."

func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// ColorGreenHost renders the green-hosting flag as a coloured yes/no.
func ColorGreenHost(green bool) string {
	if green {
		return colorGreen.Sprint("yes")
	}
	return colorRed.Sprint("no")
}

// PrintNoData writes the empty-state notice in yellow.
func PrintNoData(w io.Writer) error {
	if _, err := colorYellow.Fprintln(w, NoDataNotice); err != nil {
		return fmt.Errorf("render notice: %w", err)
	}
	return nil
}
