package cli

import (
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/people-registry/internal/types"
)

type personFlags struct {
	firstName, lastName, gender string
}

func (p *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&p.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&p.gender, "gender", "", "Male, Female or Other")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
}

func newAddCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a record to the store",
	}
	cmd.AddCommand(newAddStudentCommand(rt))
	cmd.AddCommand(newAddSellerCommand(rt))
	cmd.AddCommand(newAddGardenerCommand(rt))
	return cmd
}

func newAddStudentCommand(rt *runtime) *cobra.Command {
	var (
		p         personFlags
		studentID string
		course    uint8
		dorm      string
	)

	cmd := &cobra.Command{
		Use:   "student",
		Short: "Append a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &types.Student{
				FirstName: p.firstName,
				LastName:  p.lastName,
				Gender:    types.ParseGender(p.gender),
				StudentID: studentID,
				Course:    course,
			}
			if cmd.Flags().Changed("dorm") {
				s.DormitoryRoom = types.StringPtr(dorm)
			}
			return rt.appendRecord(s)
		},
	}

	p.register(cmd)
	cmd.Flags().StringVar(&studentID, "student-id", "", "Student ID")
	cmd.Flags().Uint8Var(&course, "course", 1, "Course")
	cmd.Flags().StringVar(&dorm, "dorm", "", "Dormitory room")
	_ = cmd.MarkFlagRequired("student-id")
	return cmd
}

func newAddSellerCommand(rt *runtime) *cobra.Command {
	var (
		p    personFlags
		shop string
	)

	cmd := &cobra.Command{
		Use:   "seller",
		Short: "Append a seller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &types.Seller{
				FirstName: p.firstName,
				LastName:  p.lastName,
				Gender:    types.ParseGender(p.gender),
			}
			if cmd.Flags().Changed("shop") {
				s.Shop = types.StringPtr(shop)
			}
			return rt.appendRecord(s)
		},
	}

	p.register(cmd)
	cmd.Flags().StringVar(&shop, "shop", "", "Shop")
	return cmd
}

func newAddGardenerCommand(rt *runtime) *cobra.Command {
	var (
		p          personFlags
		experience uint8
	)

	cmd := &cobra.Command{
		Use:   "gardener",
		Short: "Append a gardener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := &types.Gardener{
				FirstName: p.firstName,
				LastName:  p.lastName,
				Gender:    types.ParseGender(p.gender),
			}
			if cmd.Flags().Changed("experience") {
				g.ExperienceYears = types.Uint8Ptr(experience)
			}
			return rt.appendRecord(g)
		},
	}

	p.register(cmd)
	cmd.Flags().Uint8Var(&experience, "experience", 0, "Years of experience")
	return cmd
}

func (rt *runtime) appendRecord(r types.Record) error {
	if err := rt.repo.Append(rt.path, r); err != nil {
		return err
	}
	return rt.printf("Appended %s to %s.\n", describe(r), rt.path)
}
