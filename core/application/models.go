// Package application exposes the read-only recruitment applications.
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("application not found")
	ErrUnknownStatus = errors.New("unknown application status")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Badge is how a status is displayed.
type Badge struct {
	Label string
	Color string
}

// Badge maps the three known statuses and rejects anything else.
func (s Status) Badge() (Badge, error) {
	switch s {
	case StatusPending:
		return Badge{Label: "قيد المراجعة", Color: "yellow"}, nil
	case StatusAccepted:
		return Badge{Label: "مقبول", Color: "green"}, nil
	case StatusRejected:
		return Badge{Label: "مرفوض", Color: "red"}, nil
	}
	return Badge{}, errors.Wrapf(ErrUnknownStatus, "%q", string(s))
}

func (s *Status) UnmarshalText(text []byte) error {
	st := Status(text)
	if _, err := st.Badge(); err != nil {
		return err
	}
	*s = st
	return nil
}

type (
	InterestedField struct {
		Name string `json:"name"`
	}

	PortfolioLink struct {
		URL string `json:"url"`
	}

	Application struct {
		ID                string            `json:"id"`
		FullName          string            `json:"fullName"`
		PhoneNumber       string            `json:"phoneNumber"`
		College           string            `json:"college"`
		Specialization    string            `json:"specialization"`
		AcademicYear      int               `json:"academicYear"`
		InterestedFields  []InterestedField `json:"interestedFields"`
		HasExperience     bool              `json:"hasExperience"`
		ExperienceDetails string            `json:"experienceDetails,omitempty"`
		PortfolioLinks    []PortfolioLink   `json:"portfolioLinks"`
		EquipmentDetails  string            `json:"equipmentDetails,omitempty"`
		ReasonToJoin      string            `json:"reasonToJoin"`
		Status            Status            `json:"status"`
		CreatedAt         time.Time         `json:"createdAt"`
		UpdatedAt         time.Time         `json:"updatedAt"`
	}

	// Gateway is the backend port for applications.
	Gateway interface {
		ListApplications(ctx context.Context) ([]Application, error)
	}
)

var fieldLabels = map[string]string{
	"photography":     "التصوير الفوتوغرافي والفيديو",
	"voiceover":       "التعليق الصوتي والتقديم",
	"montage":         "المونتاج وتحرير الفيديو",
	"graphic_design":  "التصميم الجرافيكي",
	"content_writing": "كتابة المحتوى الإعلامي",
	"social_media":    "إدارة وسائل التواصل الاجتماعي",
	"live_streaming":  "البث المباشر والتغطية الحية",
}

// FieldLabel translates a media field key. Unknown keys are returned as is.
func FieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return name
}

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatDate renders t as a Gregorian DD/MM/YYYY date with Arabic-Indic digits.
func FormatDate(t time.Time) string {
	return arabicDigits.Replace(fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year()))
}
