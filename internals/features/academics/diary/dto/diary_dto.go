// file: internals/features/academics/diary/dto/diary_dto.go
package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"schoolerp_backend/internals/features/academics/diary/model"
	helper "schoolerp_backend/internals/helpers"
)

type DiaryCreateRequest struct {
	ClassName   string   `json:"className" validate:"required,max=100"`
	Section     *string  `json:"section,omitempty" validate:"omitempty,max=50"`
	Subject     *string  `json:"subject,omitempty" validate:"omitempty,max=100"`
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required"`
	EntryDate   string   `json:"entryDate" validate:"omitempty,datetime=2006-01-02"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,required,url"`
}

type DiaryUpdateRequest struct {
	ClassName   *string   `json:"className,omitempty" validate:"omitempty,min=1,max=100"`
	Section     *string   `json:"section,omitempty" validate:"omitempty,max=50"`
	Subject     *string   `json:"subject,omitempty" validate:"omitempty,max=100"`
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content     *string   `json:"content,omitempty" validate:"omitempty,min=1"`
	EntryDate   *string   `json:"entryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Attachments *[]string `json:"attachments,omitempty" validate:"omitempty,max=10,dive,required,url"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func (r *DiaryCreateRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.EntryDate = strings.TrimSpace(r.EntryDate)
	r.Section = trimPtr(r.Section)
	r.Subject = trimPtr(r.Subject)
}

func (r *DiaryUpdateRequest) Normalize() {
	r.ClassName = trimPtr(r.ClassName)
	r.Title = trimPtr(r.Title)
	r.Content = trimPtr(r.Content)
	r.EntryDate = trimPtr(r.EntryDate)
	r.Section = trimPtr(r.Section)
	r.Subject = trimPtr(r.Subject)
}

func day(s string) datatypes.Date {
	t, err := time.Parse(helper.DateLayout, s)
	if err != nil {
		now := time.Now().UTC()
		t = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return datatypes.Date(t)
}

// ToModel defaults the entry date to today (UTC).
func (r DiaryCreateRequest) ToModel(schoolID uint, teacherID *uint) model.DiaryEntry {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return model.DiaryEntry{
		SchoolID:    schoolID,
		TeacherID:   teacherID,
		ClassName:   r.ClassName,
		Section:     r.Section,
		Subject:     r.Subject,
		Title:       r.Title,
		Content:     r.Content,
		EntryDate:   day(r.EntryDate),
		Attachments: datatypes.NewJSONSlice(attachments),
	}
}

func (r DiaryUpdateRequest) Changes() map[string]any {
	out := map[string]any{}
	if r.ClassName != nil {
		out["class_name"] = *r.ClassName
	}
	if r.Section != nil {
		out["section"] = *r.Section
	}
	if r.Subject != nil {
		out["subject"] = *r.Subject
	}
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Content != nil {
		out["content"] = *r.Content
	}
	if r.EntryDate != nil {
		out["entry_date"] = day(*r.EntryDate)
	}
	if r.Attachments != nil {
		out["attachments"] = datatypes.NewJSONSlice(*r.Attachments)
	}
	return out
}

type DiaryResponse struct {
	ID          uint      `json:"id"`
	SchoolID    uint      `json:"schoolId"`
	TeacherID   *uint     `json:"teacherId,omitempty"`
	ClassName   string    `json:"className"`
	Section     *string   `json:"section,omitempty"`
	Subject     *string   `json:"subject,omitempty"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	EntryDate   string    `json:"entryDate"`
	Attachments []string  `json:"attachments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToDiaryResponse(m model.DiaryEntry) DiaryResponse {
	att := []string(m.Attachments)
	if att == nil {
		att = []string{}
	}
	return DiaryResponse{
		ID:          m.ID,
		SchoolID:    m.SchoolID,
		TeacherID:   m.TeacherID,
		ClassName:   m.ClassName,
		Section:     m.Section,
		Subject:     m.Subject,
		Title:       m.Title,
		Content:     m.Content,
		EntryDate:   time.Time(m.EntryDate).Format(helper.DateLayout),
		Attachments: att,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToDiaryResponses(list []model.DiaryEntry) []DiaryResponse {
	out := make([]DiaryResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToDiaryResponse(m))
	}
	return out
}
