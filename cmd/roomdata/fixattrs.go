package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/GriffinCanCode/roomdata/internal/htmlfix"
	"github.com/GriffinCanCode/roomdata/internal/ui"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFixAttrsCmd(a *app) *cobra.Command {
	var (
		targetsFile string
		check       bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "fix-attrs <file|dir|glob>...",
		Short: "Compact JSON stored in HTML attributes",
		Long: `Trim, validate and compact JSON attribute values of web components in
HTML pages. Files are rewritten only when an attribute changed; invalid JSON
is reported and left as is.

Directories are searched for .html and .htm files. Globs support **.

Examples:
  roomdata fix-attrs poster.html
  roomdata fix-attrs 'posters/**/*.html'
  roomdata fix-attrs --targets targets.yaml site/
  roomdata fix-attrs --check site/            # Report only, exit 1 if anything needs fixing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("targets") {
				targetsFile = a.cfg.Fix.TargetsFile
			}
			targets := htmlfix.DefaultTargets()
			if targetsFile != "" {
				loaded, err := htmlfix.LoadTargets(targetsFile)
				if err != nil {
					return err
				}
				targets = loaded
			}

			paths, err := htmlfix.ExpandPaths(cmd.Context(), args)
			if err != nil {
				return err
			}
			fixer := htmlfix.New(targets, a.log)

			if check {
				return a.checkAttrs(cmd.OutOrStdout(), fixer, paths, jsonOutput)
			}
			return a.fixAttrs(cmd.OutOrStdout(), fixer, paths)
		},
	}

	cmd.Flags().StringVar(&targetsFile, "targets", "", "YAML or TOML tag to attribute map (env ROOMDATA_FIX_TARGETS)")
	cmd.Flags().BoolVar(&check, "check", false, "report attribute status without writing")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the check report as JSON")
	return cmd
}

func (a *app) fixAttrs(out io.Writer, fixer *htmlfix.Fixer, paths []string) error {
	var errs []error
	for _, path := range paths {
		res, err := fixer.FixFile(path)
		if err != nil {
			a.log.Error("Failed to fix file", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		a.metrics.ObserveFix(res.Fixed, len(res.Warnings), res.Modified)

		switch {
		case res.Modified:
			fmt.Fprintf(out, "Updated %s (%d attributes)\n", path, res.Fixed)
		default:
			fmt.Fprintf(out, "No JSON attributes needed fixing in %s\n", path)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  %s <%s %s>: %v\n", ui.WarningStyle.Render("invalid JSON"), w.Tag, w.Attribute, w.Err)
		}
	}
	return errors.Join(errs...)
}

func (a *app) checkAttrs(out io.Writer, fixer *htmlfix.Fixer, paths []string, jsonOutput bool) error {
	var (
		reports []*htmlfix.CheckReport
		dirty   int
		errs    []error
	)
	for _, path := range paths {
		report, err := fixer.CheckFile(path)
		if err != nil {
			a.log.Error("Failed to check file", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if !report.Clean() {
			dirty++
		}
		reports = append(reports, report)
	}

	if jsonOutput {
		data, err := sonic.ConfigStd.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		if _, err := out.Write(append(data, '\n')); err != nil {
			return err
		}
	} else {
		sections := make([]ui.Section, 0, len(reports))
		for _, r := range reports {
			sections = append(sections, checkSection(r))
		}
		if _, err := io.WriteString(out, ui.RenderSections(sections)); err != nil {
			return err
		}
	}

	if dirty > 0 {
		errs = append(errs, fmt.Errorf("%d of %d file(s) need fixing", dirty, len(reports)))
	}
	return errors.Join(errs...)
}

func checkSection(r *htmlfix.CheckReport) ui.Section {
	var rows [][]string
	for _, tag := range r.Tags {
		for _, attr := range tag.Attributes {
			rows = append(rows, []string{
				tag.Tag,
				strconv.Itoa(tag.Elements),
				attr.Name,
				strconv.Itoa(attr.Present),
				strconv.Itoa(attr.Valid),
				strconv.Itoa(attr.NeedsCompaction),
				strconv.Itoa(attr.Invalid),
				strconv.Itoa(attr.Empty),
			})
		}
	}
	return ui.Section{
		Title:   r.Path,
		Headers: []string{"Tag", "Elements", "Attribute", "Present", "Valid", "Needs Compaction", "Invalid", "Empty"},
		Rows:    rows,
	}
}
