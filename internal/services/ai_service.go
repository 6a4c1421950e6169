package services

import (
	"context"
	"strings"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

type AIService struct {
	aiClient aiClient
}

func NewAIService(aiClient aiClient) *AIService {
	return &AIService{aiClient: aiClient}
}

func (a *AIService) GenerateCoverLetter(ctx context.Context, companyName, jobTitle, description string,
	skills []string) (string, error) {

	request := "Company: " + companyName
	request += " Job title: " + jobTitle
	request += " Description: " + description

	if len(skills) != 0 {
		request += " Key skills: " + strings.Join(skills, ", ")
	}

	request += " Write a short, specific cover letter for this position. " +
		"Three paragraphs at most, no placeholders, plain text only."

	return a.aiClient.GenerateResponse(ctx, request)
}

func (a *AIService) GenerateInterviewPrep(ctx context.Context, companyName, jobTitle, description string,
	skills []string) (string, error) {

	request := "Company: " + companyName
	request += " Job title: " + jobTitle
	request += " Description: " + description

	if len(skills) != 0 {
		request += " Key skills: " + strings.Join(skills, ", ")
	}

	request += " List the likely interview topics for this position with one short preparation hint each. " +
		"Plain text only."

	return a.aiClient.GenerateResponse(ctx, request)
}
