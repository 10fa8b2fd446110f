package main

import (
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/authoring"
	"Mumkin/internal/service/course/listing"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List and manage courses",
	}
	cmd.AddCommand(c.coursesListCmd(), c.coursesSubmitCmd(), c.coursesDeleteCmd(), c.coursesStatusCmd(), c.coursesReindexCmd())
	return cmd
}

func (c *cli) coursesListCmd() *cobra.Command {
	var category, term string
	var pages int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog as a visitor would page through it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			if err := c.connect(cmd.Context()); err != nil {
				return err
			}
			view := listing.NewView(c.deps.Courses.Courses())
			view.SetCategory(category)
			view.SetTerm(term)
			for i := 1; i < pages; i++ {
				view.LoadMore()
			}
			printPage(cmd.OutOrStdout(), view.Page().Get())
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", listing.CategoryAll, "category filter")
	cmd.Flags().StringVarP(&term, "search", "s", "", "match title or instructor name")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to show")
	return cmd
}

func printPage(out io.Writer, page listing.Page) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tINSTRUCTOR\tSTATUS\tLESSONS")
	for _, course := range page.Courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			course.ID, course.Title, course.Category, course.InstructorName, course.Status, course.LessonsCount)
	}
	_ = w.Flush()
	more := ""
	if page.HasMore {
		more = " (more available, raise --pages)"
	}
	fmt.Fprintf(out, "%d of %d courses%s\n", len(page.Courses), page.Total, more)
}

// submitter signs in and picks the authoring mode from the user's role.
func (c *cli) submitter(ctx context.Context) (*authoring.Submitter, *models.AppUser, error) {
	if err := c.connect(ctx); err != nil {
		return nil, nil, err
	}
	user, err := c.signIn(ctx)
	if err != nil {
		return nil, nil, err
	}
	var mode authoring.Mode
	switch user.Role {
	case models.RoleAdmin:
		mode = authoring.ModeAdmin
	case models.RoleInstructor:
		mode = authoring.ModeInstructor
	default:
		return nil, nil, fmt.Errorf("%s is not an instructor", user.DisplayName)
	}
	return authoring.NewSubmitter(c.log, mode, c.deps.Courses), user, nil
}

// follow prints submitter state changes until stop is called.
func follow(s *authoring.Submitter, out io.Writer) (stop func()) {
	updates, cancel := s.State().Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range updates {
			switch st.Status {
			case authoring.StatusSubmitting:
				fmt.Fprintln(out, "uploading and saving...")
			case authoring.StatusSuccess:
				fmt.Fprintln(out, st.Success)
			case authoring.StatusError:
				fmt.Fprintln(out, "error:", st.Error)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (c *cli) existing(arg string) (models.Course, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return models.Course{}, fmt.Errorf("invalid course id %q", arg)
	}
	course, ok := c.deps.Courses.Course(id)
	if !ok {
		return models.Course{}, fmt.Errorf("course %s not found", id)
	}
	return course, nil
}

func (c *cli) coursesSubmitCmd() *cobra.Command {
	var file, edit string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create a course, or update one with --edit, from a YAML manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			m, err := LoadManifest(file)
			if err != nil {
				return err
			}
			s, user, err := c.submitter(cmd.Context())
			if err != nil {
				return err
			}
			var editing *models.Course
			if edit != "" {
				course, err := c.existing(edit)
				if err != nil {
					return err
				}
				editing = &course
			}

			sub, files, err := m.Submission()
			defer func() {
				for _, f := range files {
					_ = f.Close()
				}
			}()
			if err != nil {
				return err
			}
			stop := follow(s, cmd.OutOrStdout())
			defer stop()
			return s.Submit(cmd.Context(), user, editing, sub)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "course manifest (YAML)")
	cmd.Flags().StringVar(&edit, "edit", "", "id of the course to update")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) coursesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			s, user, err := c.submitter(cmd.Context())
			if err != nil {
				return err
			}
			course, err := c.existing(args[0])
			if err != nil {
				return err
			}
			stop := follow(s, cmd.OutOrStdout())
			defer stop()
			return s.Delete(cmd.Context(), user, course)
		},
	}
}

func (c *cli) coursesStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status <course-id> <draft|published|archived>",
		Short:     "Publish, unpublish or archive a course",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(models.StatusDraft), string(models.StatusPublished), string(models.StatusArchived)},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			s, user, err := c.submitter(cmd.Context())
			if err != nil {
				return err
			}
			course, err := c.existing(args[0])
			if err != nil {
				return err
			}
			stop := follow(s, cmd.OutOrStdout())
			defer stop()
			return s.SetStatus(cmd.Context(), user, course, models.CourseStatus(args[1]))
		},
	}
}

func (c *cli) coursesReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push the whole catalog into the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			if err := c.connect(cmd.Context()); err != nil {
				return err
			}
			if !c.deps.Search {
				fmt.Fprintln(os.Stderr, "search is disabled in this config")
				return nil
			}
			if err := c.deps.Courses.Reindex(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d courses\n", len(c.deps.Courses.Courses().Get()))
			return nil
		},
	}
}
