package cli

import (
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/people-registry/internal/filter"
	"github.com/aanand-mishra/people-registry/internal/types"
)

func newStudyCommand(rt *runtime) *cobra.Command {
	var lastName string

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Promote students to their next course and rewrite the store",
		Long: "Promote every student (or only those with --last-name) to the next course, " +
			"up to course 10, then replace the store's content with the updated records.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := rt.repo.ReadAll(rt.path)
			if err != nil {
				return err
			}

			q := filter.Query{Kind: types.KindStudent, LastName: lastName}
			promoted := 0
			for _, r := range q.Apply(records) {
				s := r.(*types.Student)
				before := s.Course
				s.Study()
				if s.Course != before {
					promoted++
				}
			}

			if err := rt.repo.OverwriteAll(rt.path, records); err != nil {
				return err
			}
			return rt.printf("Promoted %d students.\n", promoted)
		},
	}

	cmd.Flags().StringVar(&lastName, "last-name", "", "Only students with this last name")
	return cmd
}

func newRewriteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite",
		Short: "Read the store and write it back in canonical form",
		Long:  "Records of unknown kinds are dropped; everything else is rewritten in the canonical field order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := rt.repo.ReadAll(rt.path)
			if err != nil {
				return err
			}
			if err := rt.repo.OverwriteAll(rt.path, records); err != nil {
				return err
			}
			return rt.printf("Rewrote %d records.\n", len(records))
		},
	}
}

func newReportCommand(rt *runtime) *cobra.Command {
	var lastName string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report male third-year dormitory residents and last-name matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := rt.repo.ReadAll(rt.path)
			if err != nil {
				return err
			}
			if err := rt.printf("Loaded %d records.\n", len(records)); err != nil {
				return err
			}

			residents := filter.DormResidents(records)
			for _, s := range residents {
				if err := rt.printf("Matched student: %s id=%s\n", types.FullName(s), s.StudentID); err != nil {
					return err
				}
			}
			if err := rt.printf("Number of male 3rd-year students living in dorm: %d\n", len(residents)); err != nil {
				return err
			}

			if lastName == "" {
				return nil
			}
			if err := rt.printf("Search by last name %s\n", lastName); err != nil {
				return err
			}
			for _, r := range filter.ByLastName(records, lastName) {
				if err := rt.printf("Found: %s\n", describe(r)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lastName, "last-name", "", "Also list every record with this last name")
	return cmd
}
