package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echomock "github.com/trezcool/mediateam/apps/mockapi/echo"
	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/college"
)

func main() {
	addr := flag.String("addr", ":3000", "Address to listen on.")
	email := flag.String("email", "admin@example.com", "Staff email accepted on login.")
	password := flag.String("password", "12345678", "Staff password accepted on login.")
	seed := flag.Bool("seed", true, "Start with sample colleges and applications.")
	flag.Parse()

	conf := core.NewConfig()
	logger := log.New(os.Stdout, "MOCKAPI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	opts := []echomock.Option{echomock.WithUser(*email, *password), echomock.WithRequestLogs()}
	if *seed {
		opts = append(opts, echomock.WithColleges(sampleColleges()...), echomock.WithApplications(sampleApplications()...))
	}
	backend := echomock.New(conf.SecretKey, opts...)

	errs := make(chan error, 1)
	go func() {
		logger.Printf("serving %s on %s", echomock.BasePath, *addr)
		errs <- backend.Start(*addr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Printf("%v: start shutdown...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Shutdown(ctx); err != nil {
			logger.Printf("graceful shutdown did not complete: %v", err)
		}
	}
}

func sampleColleges() []college.College {
	return []college.College{
		{ID: "c-eng", Name: "كلية الهندسة المعلوماتية", AcademicYearsCount: 5},
		{ID: "c-med", Name: "كلية الطب البشري", AcademicYearsCount: 6},
		{ID: "c-media", Name: "كلية الإعلام", AcademicYearsCount: 4},
	}
}

func sampleApplications() []application.Application {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 9, 30, 0, 0, time.UTC) }
	return []application.Application{
		{
			ID:                "a-1",
			FullName:          "سارة أحمد",
			PhoneNumber:       "0991234567",
			College:           "كلية الإعلام",
			Specialization:    "صحافة",
			AcademicYear:      3,
			InterestedFields:  []application.InterestedField{{Name: "photography"}, {Name: "montage"}},
			HasExperience:     true,
			ExperienceDetails: "تصوير فعاليات الجامعة لمدة سنتين",
			PortfolioLinks:    []application.PortfolioLink{{URL: "https://example.com/sara"}},
			EquipmentDetails:  "كاميرا Canon وبرنامج Premiere",
			ReasonToJoin:      "أحب العمل الإعلامي وأرغب بتطوير مهاراتي",
			Status:            application.StatusPending,
			CreatedAt:         day(1),
			UpdatedAt:         day(1),
		},
		{
			ID:               "a-2",
			FullName:         "علي حسن",
			PhoneNumber:      "0937654321",
			College:          "كلية الهندسة المعلوماتية",
			Specialization:   "هندسة البرمجيات",
			AcademicYear:     2,
			InterestedFields: []application.InterestedField{{Name: "graphic_design"}, {Name: "social_media"}},
			ReasonToJoin:     "المساهمة في نشاطات الاتحاد",
			Status:           application.StatusAccepted,
			CreatedAt:        day(2),
			UpdatedAt:        day(5),
		},
		{
			ID:               "a-3",
			FullName:         "ليلى محمود",
			PhoneNumber:      "0945556677",
			College:          "كلية الطب البشري",
			Specialization:   "طب بشري",
			AcademicYear:     1,
			InterestedFields: []application.InterestedField{{Name: "voiceover"}},
			ReasonToJoin:     "تجربة مجال جديد",
			Status:           application.StatusRejected,
			CreatedAt:        day(3),
			UpdatedAt:        day(6),
		},
	}
}
