// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-importer/internal/db"
	"github.com/jonathan/resume-importer/internal/parsing"
	"github.com/jonathan/resume-importer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// dateRange renders start and end dates of a record
func dateRange(start, end string, current bool) string {
	switch {
	case current && start != "":
		return start + " – present"
	case current:
		return "present"
	case start != "" && end != "":
		return start + " – " + end
	case start != "":
		return start + " –"
	default:
		return end
	}
}

// writeMore notes how many items were left out
func writeMore(sb *strings.Builder, total int) {
	if total > maxItemsToShow {
		fmt.Fprintf(sb, "... and %d more\n", total-maxItemsToShow)
	}
}

// PrintResult outputs every category of a parse result with its source and
// any diagnostics.
func (p *Printer) PrintResult(res *parsing.Result) {
	if res == nil {
		return
	}
	p.PrintExperiences(res.Batch.Experiences, res.Sources[parsing.CategoryExperiences])
	p.PrintEducation(res.Batch.Education, res.Sources[parsing.CategoryEducation])
	p.PrintSkills(res.Batch.Skills, res.Sources[parsing.CategorySkills])
	p.PrintDiagnostics(res.Diagnostics)
}

// PrintExperiences outputs a summary of parsed experience records.
func (p *Printer) PrintExperiences(records []types.ExperienceRecord, source parsing.Source) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", source)
	if len(records) == 0 {
		sb.WriteString("(none)")
		p.printBox("EXPERIENCES", sb.String())
		return
	}

	for i, r := range records[:min(len(records), maxItemsToShow)] {
		if i > 0 {
			sb.WriteString("\n")
		}
		title := r.Organization
		if r.RoleTitle != "" {
			title += " | " + r.RoleTitle
		}
		fmt.Fprintf(&sb, "%s\n", title)
		if dates := dateRange(r.StartDate, r.EndDate, r.IsCurrent); dates != "" {
			fmt.Fprintf(&sb, "  %s\n", dates)
		}
		if r.Location != "" {
			fmt.Fprintf(&sb, "  %s\n", r.Location)
		}
		for _, a := range r.Achievements[:min(len(r.Achievements), 3)] {
			fmt.Fprintf(&sb, "  • %s\n", a)
		}
		if len(r.Achievements) > 3 {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(r.Achievements)-3)
		}
	}
	writeMore(&sb, len(records))

	p.printBox(fmt.Sprintf("EXPERIENCES (%d)", len(records)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEducation outputs a summary of parsed education records.
func (p *Printer) PrintEducation(records []types.EducationRecord, source parsing.Source) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", source)
	if len(records) == 0 {
		sb.WriteString("(none)")
		p.printBox("EDUCATION", sb.String())
		return
	}

	for _, r := range records[:min(len(records), maxItemsToShow)] {
		fmt.Fprintf(&sb, "%s\n", r.Institution)
		if len(r.Degree) > 0 || len(r.FieldOfStudy) > 0 {
			fmt.Fprintf(&sb, "  %s\n", strings.TrimSpace(r.Degree.String()+" "+r.FieldOfStudy.String()))
		}
		if dates := dateRange(r.StartDate, r.EndDate, false); dates != "" {
			fmt.Fprintf(&sb, "  %s\n", dates)
		}
	}
	writeMore(&sb, len(records))

	p.printBox(fmt.Sprintf("EDUCATION (%d)", len(records)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs skill groups, one line per category.
func (p *Printer) PrintSkills(groups []types.SkillGroupRecord, source parsing.Source) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", source)
	if len(groups) == 0 {
		sb.WriteString("(none)")
		p.printBox("SKILLS", sb.String())
		return
	}

	for _, g := range groups {
		category := g.Category
		if category == "" {
			category = "General"
		}
		fmt.Fprintf(&sb, "%s: %s\n", category, strings.Join(g.Skills, ", "))
	}

	p.printBox(fmt.Sprintf("SKILLS (%d groups)", len(groups)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnostics outputs degraded steps of a parse. Nothing is printed when
// the parse was clean.
func (p *Printer) PrintDiagnostics(diags []parsing.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&sb, "[%s/%s] %s: %s\n", d.Stage, d.Category, d.Reason, d.Message)
	}

	p.printBox(fmt.Sprintf("DIAGNOSTICS (%d)", len(diags)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImport outputs what an import stored and skipped.
func (p *Printer) PrintImport(result *db.ImportResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-14s %8s %8s\n", "", "inserted", "skipped")
	fmt.Fprintf(&sb, "%-14s %8d %8d\n", "experiences", result.Inserted.Experiences, result.Skipped.Experiences)
	fmt.Fprintf(&sb, "%-14s %8d %8d\n", "education", result.Inserted.Education, result.Skipped.Education)
	fmt.Fprintf(&sb, "%-14s %8d %8d", "skill groups", result.Inserted.Skills, result.Skipped.Skills)

	p.printBox("IMPORT", sb.String())
}
