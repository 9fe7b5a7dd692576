package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/people-registry/internal/filter"
	"github.com/aanand-mishra/people-registry/internal/types"
)

func newListCommand(rt *runtime) *cobra.Command {
	var (
		kind, lastName, gender string
		course                 uint8
		inDorm, asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the records, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var q filter.Query
			flags := cmd.Flags()

			if kind != "" {
				k, ok := types.ParseKind(kind)
				if !ok {
					return fmt.Errorf("invalid --kind %q: want one of %v", kind, types.Kinds)
				}
				q.Kind = k
			}
			q.LastName = lastName
			if flags.Changed("gender") {
				g := types.ParseGender(gender)
				q.Gender = &g
			}
			if flags.Changed("course") {
				q.Course = &course
			}
			if flags.Changed("in-dorm") {
				q.InDorm = &inDorm
			}

			records, err := rt.repo.ReadAll(rt.path)
			if err != nil {
				return err
			}
			matched := q.Apply(records)

			if asJSON {
				enc := json.NewEncoder(rt.out)
				enc.SetIndent("", "  ")
				return enc.Encode(types.ToDocuments(matched))
			}

			if err := rt.printf("Loaded %d records.\n", len(records)); err != nil {
				return err
			}
			for _, r := range matched {
				if err := rt.printf("%s\n", describe(r)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only records of this kind (Student, Seller, Gardener)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Only records with this last name")
	cmd.Flags().StringVar(&gender, "gender", "", "Only records with this gender")
	cmd.Flags().Uint8Var(&course, "course", 0, "Only students in this course")
	cmd.Flags().BoolVar(&inDorm, "in-dorm", false, "Only students who do (or, with =false, do not) live in a dormitory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

// describe renders one record on a single line.
func describe(r types.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s gender=%s", r.Kind(), types.FullName(r), r.GetGender())

	switch v := r.(type) {
	case *types.Student:
		fmt.Fprintf(&b, " id=%s course=%d", v.StudentID, v.Course)
		if v.DormitoryRoom != nil {
			fmt.Fprintf(&b, " dorm=%s", *v.DormitoryRoom)
		}
	case *types.Seller:
		if v.Shop != nil {
			fmt.Fprintf(&b, " shop=%s", *v.Shop)
		}
	case *types.Gardener:
		if v.ExperienceYears != nil {
			fmt.Fprintf(&b, " experience=%d", *v.ExperienceYears)
		}
	}
	return b.String()
}
