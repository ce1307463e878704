package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/mediateam/core/college"
)

func (cli *commandLine) listColleges(ctx context.Context) error {
	colleges, err := cli.collegeSvc.List(ctx)
	if err != nil {
		return err
	}
	if len(colleges) == 0 {
		fmt.Fprintln(cli.out, "لا توجد كليات")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "المعرف\tاسم الكلية\tعدد السنوات الدراسية")
	for _, c := range colleges {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.ID, c.Name, c.AcademicYearsCount)
	}
	return w.Flush()
}

// saveCollege creates when target is nil and updates target otherwise.
func (cli *commandLine) saveCollege(ctx context.Context, target *college.College, form college.Form) error {
	saved, err := cli.collegeSvc.Save(ctx, target, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "تم حفظ الكلية بنجاح: %s (%s)\n", saved.Name, saved.ID)
	return nil
}

func (cli *commandLine) deleteCollege(ctx context.Context, id string, yes bool) error {
	target, err := cli.collegeSvc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !yes && !cli.confirm(fmt.Sprintf("حذف %s؟", target.Name)) {
		return errAborted
	}
	if err := cli.collegeSvc.Delete(ctx, target.ID); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "تم حذف الكلية بنجاح")
	return nil
}
