package services

import (
	"artnuggets/internal/models"
	"artnuggets/internal/services/dto"
)

func buildUserResponse(user *models.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:                  user.ID,
		Email:               user.Email,
		FullName:            user.FullName,
		Role:                string(user.Role),
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
		LastLoginAt:         user.LastLoginAt,
	}
	if user.Industry != nil {
		resp.Industry = buildIndustryBrief(user.Industry)
	}
	for i := range user.Niches {
		resp.Niches = append(resp.Niches, *buildNicheBrief(&user.Niches[i]))
	}
	return resp
}

func buildIndustryBrief(industry *models.Industry) *dto.IndustryBrief {
	return &dto.IndustryBrief{
		ID:   industry.ID,
		Name: industry.Name,
		Slug: industry.Slug,
	}
}

func buildNicheBrief(niche *models.Niche) *dto.NicheBrief {
	return &dto.NicheBrief{
		ID:         niche.ID,
		IndustryID: niche.IndustryID,
		Name:       niche.Name,
		Slug:       niche.Slug,
	}
}

func buildCourseBrief(course *models.Course) *dto.CourseBrief {
	brief := &dto.CourseBrief{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Summary:     course.Summary,
		Level:       string(course.Level),
		DurationMin: course.DurationMin,
		CoverURL:    course.CoverURL,
	}
	if course.Industry != nil {
		brief.Industry = buildIndustryBrief(course.Industry)
	}
	if course.Niche != nil {
		brief.Niche = buildNicheBrief(course.Niche)
	}
	return brief
}

func buildMessageResponse(msg *models.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Reasoning: msg.Reasoning,
		CreatedAt: msg.CreatedAt,
	}
}
