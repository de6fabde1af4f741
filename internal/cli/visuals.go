package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/pipeline"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

var headerStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

// newTable returns a table in the CLI's border style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorAccent)
			}
			return lipgloss.NewStyle().Foreground(colorText)
		})
}

// visualsCommand creates the visuals command listing registered visuals.
func (c *CLI) visualsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "visuals [type]",
		Short: "List the available visuals, or the settings schema of one",
		Args:  cobra.MaximumNArgs(1),

		ValidArgsFunction: c.completeVisualArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := pipeline.ValidateVisual(c.Registry, args[0]); err != nil {
					return err
				}
				info, _ := c.Registry.Lookup(args[0])
				return c.printSchema(info, asJSON)
			}
			return c.printVisuals(asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) printVisuals(asJSON bool) error {
	infos := c.Registry.Infos()
	if asJSON {
		type entry struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Objects     []string `json:"objects"`
		}
		out := make([]entry, 0, len(infos))
		for _, info := range infos {
			out = append(out, entry{info.Name, info.Description, info.Schema.Names()})
		}
		return writeJSON(c.Out, out)
	}

	t := newTable("Visual", "Description", "Objects")
	for _, info := range infos {
		t.Row(info.Name, info.Description, strings.Join(info.Schema.Names(), ", "))
	}
	fmt.Fprintln(c.Out, t.Render())
	return nil
}

// schemaRow describes one property for display.
type schemaRow struct {
	Object   string `json:"object"`
	Property string `json:"property"`
	Kind     string `json:"kind"`
	Default  any    `json:"default"`
	Range    string `json:"range,omitempty"`
}

func schemaRows(s *settings.Schema) []schemaRow {
	var rows []schemaRow
	for _, name := range s.Names() {
		obj, _ := s.Object(name)
		for _, p := range obj.Properties {
			row := schemaRow{Object: name, Property: p.Name, Kind: p.Kind.String(), Default: p.Default}
			switch {
			case p.Bounded():
				row.Range = fmt.Sprintf("%g..%g", p.Min, p.Max)
			case len(p.Options) > 0:
				row.Range = strings.Join(p.Options, "|")
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (c *CLI) printSchema(info visual.Info, asJSON bool) error {
	rows := schemaRows(info.Schema)
	if asJSON {
		return writeJSON(c.Out, rows)
	}
	fmt.Fprintln(c.Out, StyleTitle.Render(info.Name)+" "+StyleDim.Render(info.Description))
	t := newTable("Object", "Property", "Kind", "Default", "Range")
	for _, r := range rows {
		t.Row(r.Object, r.Property, r.Kind, fmt.Sprint(r.Default), r.Range)
	}
	fmt.Fprintln(c.Out, t.Render())
	return nil
}
