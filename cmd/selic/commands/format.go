package commands

import (
	"fmt"
	"strings"
	"time"
)

// Common output helpers so every command prints the same way

// JobMetadata describes a one-shot command run
type JobMetadata struct {
	JobType string
	Tag     string
	Period  *Period // Optional
}

// Period represents a date range
type Period struct {
	StartDate string
	EndDate   string
}

// PrintJobHeader prints a formatted job header
func PrintJobHeader(meta JobMetadata) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", meta.JobType)
	PrintSeparator()

	if meta.Period != nil {
		fmt.Printf("  Period    : %s ~ %s\n", meta.Period.StartDate, meta.Period.EndDate)
		PrintSeparator()
	}

	fmt.Printf("[%s] Triggered at %s\n", meta.Tag, time.Now().Format(time.RFC3339))
}

// PrintCompletion prints the elapsed time of a finished command
func PrintCompletion(elapsed time.Duration) {
	fmt.Println()
	fmt.Printf("✅ Completed in %.2fs\n", elapsed.Seconds())
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println(strings.Repeat("─", 59))
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println(strings.Repeat("═", 59))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}
