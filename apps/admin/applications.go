package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/mediateam/core/application"
)

func statusLabel(s application.Status) string {
	b, err := s.Badge()
	if err != nil {
		return string(s)
	}
	return b.Label
}

func (cli *commandLine) listApplications(ctx context.Context) error {
	apps, err := cli.appSvc.List(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(cli.out, "لا توجد طلبات")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "المعرف\tالاسم الكامل\tرقم الهاتف\tالكلية\tالتخصص\tالحالة\tتاريخ التقديم")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, app.FullName, app.PhoneNumber, app.College, app.Specialization,
			statusLabel(app.Status), application.FormatDate(app.CreatedAt))
	}
	return w.Flush()
}

func (cli *commandLine) showApplication(ctx context.Context, id string) error {
	app, err := cli.appSvc.Select(ctx, id)
	if err != nil {
		return err
	}

	fields := make([]string, 0, len(app.InterestedFields))
	for _, f := range app.InterestedFields {
		fields = append(fields, application.FieldLabel(f.Name))
	}
	experience := "لا"
	if app.HasExperience {
		experience = "نعم"
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "الاسم الكامل:\t%s\n", app.FullName)
	fmt.Fprintf(w, "رقم الهاتف:\t%s\n", app.PhoneNumber)
	fmt.Fprintf(w, "الكلية:\t%s\n", app.College)
	fmt.Fprintf(w, "التخصص:\t%s\n", app.Specialization)
	fmt.Fprintf(w, "السنة الدراسية:\t%d\n", app.AcademicYear)
	fmt.Fprintf(w, "المجالات الإعلامية المطلوبة:\t%s\n", strings.Join(fields, "، "))
	fmt.Fprintf(w, "هل لديك خبرة سابقة؟\t%s\n", experience)
	if app.HasExperience && app.ExperienceDetails != "" {
		fmt.Fprintf(w, "تفاصيل الخبرة:\t%s\n", app.ExperienceDetails)
	}
	for i, link := range app.PortfolioLinks {
		fmt.Fprintf(w, "رابط %d:\t%s\n", i+1, link.URL)
	}
	if app.EquipmentDetails != "" {
		fmt.Fprintf(w, "المعدات والبرامج المتوفرة:\t%s\n", app.EquipmentDetails)
	}
	fmt.Fprintf(w, "سبب الانضمام للفريق الإعلامي:\t%s\n", app.ReasonToJoin)
	fmt.Fprintf(w, "الحالة:\t%s\n", statusLabel(app.Status))
	fmt.Fprintf(w, "تاريخ التقديم:\t%s\n", application.FormatDate(app.CreatedAt))
	fmt.Fprintf(w, "آخر تحديث:\t%s\n", application.FormatDate(app.UpdatedAt))
	return w.Flush()
}
