package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Pjt727/cample/data"
	timetableentry "github.com/Pjt727/cample/data/timetable-entry"
	"github.com/Pjt727/cample/export"
	"github.com/Pjt727/cample/timetable"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// timetableCmd represents the timetable command
var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "inspect or change a single student's timetable",
	Long: `Runs the same operations as the api directly against the database
(this command is not ran directly)`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the student's timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, service *timetable.Service, studentID int64) error {
			tt, err := service.Timetable(ctx, studentID)
			if err != nil {
				return err
			}
			return printTimetable(cmd.OutOrStdout(), tt)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes the student's timetable as an iCalendar file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, service *timetable.Service, studentID int64) error {
			tt, err := service.Timetable(ctx, studentID)
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return export.WriteICS(cmd.OutOrStdout(), tt, time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteICS(f, tt, time.Now()); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Adds a course when it does not conflict with the timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, service *timetable.Service, studentID int64) error {
			courseID, err := cmd.Flags().GetInt64("course")
			if err != nil {
				return err
			}
			result, err := service.TryAdd(ctx, studentID, courseID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.Conflict {
				fmt.Fprintf(out, "course %d conflicts with the timetable, run resolve with KEEP or REPLACE\n", courseID)
				return printConflicts(out, result.Conflicts)
			}
			fmt.Fprintf(out, "added %s with %d lecture events\n", result.EnrollmentID, result.CreatedEventCount)
			return nil
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Keeps the timetable or replaces every conflicting course",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, service *timetable.Service, studentID int64) error {
			courseID, err := cmd.Flags().GetInt64("course")
			if err != nil {
				return err
			}
			rawDecision, err := cmd.Flags().GetString("decision")
			if err != nil {
				return err
			}
			decision, err := timetable.ParseDecision(rawDecision)
			if err != nil {
				return err
			}
			result, err := service.Resolve(ctx, studentID, courseID, decision)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Applied {
				fmt.Fprintln(out, "timetable kept as it was")
				return nil
			}
			fmt.Fprintf(out, "added %s with %d lecture events, removed %d courses and %d lecture events\n",
				result.EnrollmentID, result.CreatedEventCount, len(result.RemovedEnrollmentIDs), result.DeletedEventCount)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [item id]",
	Short: "Removes a course and its lecture events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id: %w", err)
		}
		return withService(cmd, func(ctx context.Context, service *timetable.Service, studentID int64) error {
			result, err := service.Remove(ctx, studentID, itemID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s and %d lecture events\n", itemID, result.DeletedEventCount)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(timetableCmd)
	timetableCmd.PersistentFlags().Int64("student", 0, "the student whose timetable is used")
	timetableCmd.MarkPersistentFlagRequired("student")

	timetableCmd.AddCommand(showCmd)

	timetableCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "-", "file to write the calendar to (- for stdout)")

	timetableCmd.AddCommand(addCmd)
	addCmd.Flags().Int64("course", 0, "the course to add")
	addCmd.MarkFlagRequired("course")

	timetableCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Int64("course", 0, "the course that conflicted")
	resolveCmd.Flags().String("decision", "", "KEEP or REPLACE")
	resolveCmd.MarkFlagRequired("course")
	resolveCmd.MarkFlagRequired("decision")

	timetableCmd.AddCommand(removeCmd)
}

func withService(
	cmd *cobra.Command,
	fn func(ctx context.Context, service *timetable.Service, studentID int64) error,
) error {
	studentID, err := cmd.Flags().GetInt64("student")
	if err != nil {
		return err
	}
	if studentID <= 0 {
		return errors.New("--student must be positive")
	}
	ctx := cmd.Context()
	pool, err := data.NewPool(ctx, false)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := timetable.NewService(timetableentry.NewTxRunner(pool), cfg.Semester, timetable.WithLogger(logger))
	return fn(ctx, service, studentID)
}

func printTimetable(w io.Writer, tt timetable.Timetable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "semester %s, %d credits\n", tt.SemesterCode, tt.TotalCredits())
	fmt.Fprintln(tw, "ITEM\tCODE\tCOURSE\tTIMES")
	for _, c := range tt.Courses {
		times := make([]string, len(c.Slots))
		for i, slot := range c.Slots {
			times[i] = fmt.Sprintf("%s %s", strings.ToUpper(slot.Day.String()[:3]), slot.Window())
			if slot.Room != "" {
				times[i] += " " + slot.Room
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Enrollment.ID, c.Course.Code, c.Course.Title(), strings.Join(times, ", "))
	}
	return tw.Flush()
}

func printConflicts(w io.Writer, conflicts []timetable.Conflict) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tEXISTING\tREQUESTED\tCOURSE")
	for _, c := range conflicts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.DayLabel(), c.Existing, c.Requested, c.ExistingCourseName)
	}
	return tw.Flush()
}
