package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/bokul-dev/folio/internal/archive"
	"github.com/bokul-dev/folio/internal/editor"
	"github.com/bokul-dev/folio/internal/listing"
	"github.com/bokul-dev/folio/internal/media"
	"github.com/bokul-dev/folio/internal/models"
	"github.com/bokul-dev/folio/internal/report"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "List, edit and archive portfolio projects",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newFeaturedCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newEditCmd())

	return cmd
}

// loadProjects reads from an archive when from is set, otherwise from the API
func loadProjects(ctx context.Context, from string) ([]models.Project, error) {
	if from != "" {
		return archive.Load(from)
	}
	return newClient().List(ctx)
}

func newListCmd() *cobra.Command {
	var page, size int
	var from string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the project list",
		Example: `  # First page from the API
  folio projects list

  # Third page of 10 from an exported archive
  folio projects list --from projects.parquet --page 3 --size 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadProjects(cmd.Context(), from)
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}

			view, err := listing.Paginate(list, listing.Clamp(page, listing.TotalPages(len(list), size)), size)
			if err != nil {
				return err
			}

			printProjects(view.Items)
			fmt.Printf("\nPage %d of %d (%d projects)", view.Page, view.TotalPages, view.Total)
			if window := listing.PageWindow(view.Page, view.TotalPages); len(window) > 1 {
				fmt.Printf("  pages: %v", window)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to show (clamped to the last page)")
	cmd.Flags().IntVar(&size, "size", listing.DefaultPageSize, "Projects per page")
	cmd.Flags().StringVar(&from, "from", "", "Read projects from a parquet or jsonl archive instead of the API")

	return cmd
}

func newFeaturedCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the projects featured on the home page",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadProjects(cmd.Context(), from)
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			printProjects(listing.Featured(list))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Read projects from a parquet or jsonl archive instead of the API")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newClient().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProject(p)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", args[0])
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Save the project list to a parquet or jsonl archive",
		Example: `  folio projects export projects.parquet
  folio projects export projects.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newClient().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			if err := archive.Save(args[0], list); err != nil {
				return err
			}
			fmt.Printf("Exported %d projects to %s\n", len(list), args[0])
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var from string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize projects by platform, technology and completeness",
		Example: `  # Summary of the live list
  folio projects stats

  # Summary of an archive, also saved as YAML under reports/
  folio projects stats --from projects.parquet --output reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadProjects(cmd.Context(), from)
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}

			source := from
			if source == "" {
				source = cfg.API.URL
			}
			summary := report.Summarize(list, source)
			summary.Print(os.Stdout)

			if outputDir != "" {
				path, err := report.SaveToYAML(outputDir, summary)
				if err != nil {
					return err
				}
				fmt.Printf("Report saved to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Read projects from a parquet or jsonl archive instead of the API")
	cmd.Flags().StringVar(&outputDir, "output", "", "Directory to save a YAML copy of the report")
	return cmd
}

// projectFlags are the editable fields shared by create and edit
type projectFlags struct {
	title, platform, description string
	github, live                 string
	addTech, removeTech          []string
	images                       []string
}

func (f *projectFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Project title")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Platform label or alias (web, mobile, desktop, chrome-extension, wordpress, other)")
	cmd.Flags().StringVar(&f.description, "description", "", "Project description")
	cmd.Flags().StringVar(&f.github, "github", "", "Source repository URL")
	cmd.Flags().StringVar(&f.live, "live", "", "Live preview URL")
	cmd.Flags().StringSliceVar(&f.addTech, "tech", nil, "Technology to add (repeatable)")
	cmd.Flags().StringSliceVar(&f.removeTech, "remove-tech", nil, "Technology to remove (repeatable)")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Image file to add, in order (repeatable)")
}

// apply copies the flags that were set onto the session's draft
func (f *projectFlags) apply(cmd *cobra.Command, s *editor.Session) error {
	fields := s.Draft().Fields
	set := cmd.Flags().Changed
	if set("title") {
		fields.Title = f.title
	}
	if set("platform") {
		p, err := models.ParsePlatform(f.platform)
		if err != nil {
			return err
		}
		fields.Platform = p
	}
	if set("description") {
		fields.Description = f.description
	}
	if set("github") {
		fields.GithubLink = f.github
	}
	if set("live") {
		fields.LivePreview = f.live
	}
	if err := s.SetFields(fields); err != nil {
		return err
	}

	for _, t := range f.addTech {
		if _, err := s.AddTechnology(strings.TrimSpace(t)); err != nil {
			return err
		}
	}
	for _, t := range f.removeTech {
		if _, err := s.RemoveTechnology(strings.TrimSpace(t)); err != nil {
			return err
		}
	}

	if len(f.images) == 0 {
		return nil
	}
	files := make([]media.FileDescriptor, 0, len(f.images))
	for _, path := range f.images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		files = append(files, media.DetectFile(filepath.Base(path), "", data))
	}

	result, err := s.StageFiles(files)
	if err != nil {
		return err
	}
	for _, msg := range result.Messages() {
		fmt.Fprintln(os.Stderr, "skipped:", msg)
	}
	return nil
}

func newCreateCmd() *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Example: `  folio projects create --title Shop --platform web --description "An online shop" \
    --github https://github.com/me/shop --live https://shop.example \
    --tech React --tech Go --image cover.png --image cart.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := editor.New(newClient(), nil, cfg.Images.Limits())
			if err := s.Start(); err != nil {
				return err
			}
			if err := f.apply(cmd, s); err != nil {
				return err
			}
			return submit(cmd.Context(), s)
		},
	}

	f.bind(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var f projectFlags
	var removeImages []string
	var cover int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a project",
		Long: `Edit the fields, technologies and images of an existing project.

Removed images are deleted on the server straight away, before the rest of the
edit is submitted. --cover moves the image at that position to the front.`,
		Example: `  # Rename and drop a stored image
  folio projects edit 64f1 --title "Shop v2" --remove-image https://cdn.example/old.png

  # Make the second image the cover
  folio projects edit 64f1 --cover 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			project, err := client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := editor.New(client, nil, cfg.Images.Limits())
			if err := s.Load(project); err != nil {
				return err
			}
			defer s.Cancel()

			for _, url := range removeImages {
				project, err := s.RemoveExistingImage(cmd.Context(), url)
				if err != nil {
					return fmt.Errorf("failed to remove %s: %w", url, err)
				}
				fmt.Printf("Removed image %s (%d left)\n", url, len(project.Images))
			}

			if err := f.apply(cmd, s); err != nil {
				return err
			}

			if cmd.Flags().Changed("cover") {
				if err := s.Move(cover, 0); err != nil {
					return err
				}
			}
			return submit(cmd.Context(), s)
		},
	}

	f.bind(cmd)
	cmd.Flags().StringSliceVar(&removeImages, "remove-image", nil, "Stored image URL to delete (repeatable)")
	cmd.Flags().IntVar(&cover, "cover", 0, "Position of the image to use as the cover")

	return cmd
}

func submit(ctx context.Context, s *editor.Session) error {
	project, err := s.Submit(ctx)
	if err != nil {
		var verr *editor.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("project is incomplete: %w", err)
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	printProject(project)
	return nil
}

func printProjects(list []models.Project) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPLATFORM\tIMAGES\tCOVER\tTECHNOLOGIES")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Title, p.Platform, len(p.Images), p.Cover(), strings.Join(p.Technologies, ", "))
	}
	_ = w.Flush()
}

func printProject(p *models.Project) {
	fmt.Printf("ID:           %s\n", p.ID)
	fmt.Printf("Title:        %s\n", p.Title)
	fmt.Printf("Platform:     %s\n", p.Platform)
	fmt.Printf("Description:  %s\n", p.Description)
	fmt.Printf("Technologies: %s\n", strings.Join(p.Technologies, ", "))
	fmt.Printf("GitHub:       %s\n", p.GithubLink)
	fmt.Printf("Live:         %s\n", p.LivePreview)
	if !p.CreatedAt.IsZero() {
		fmt.Printf("Created:      %s (%s ago)\n", p.CreatedAt.Format("2006-01-02"), units.HumanDuration(time.Since(p.CreatedAt)))
	}
	for i, img := range p.Images {
		marker := ""
		if i == 0 {
			marker = " (cover)"
		}
		fmt.Printf("Image %d:      %s%s\n", i, img, marker)
	}
}
