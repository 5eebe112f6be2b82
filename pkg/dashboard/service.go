package dashboard

import "context"

type SummaryService interface {
	GetSummary(ctx context.Context) (Summary, error)
}

type summaryService struct {
	repo SummaryRepository
}

func NewSummaryService(repo SummaryRepository) SummaryService {
	return &summaryService{repo: repo}
}

func (s *summaryService) GetSummary(ctx context.Context) (Summary, error) {
	categories, err := s.repo.CategorySummaries(ctx)
	if err != nil {
		return Summary{}, err
	}
	total, unassigned, openAudits, err := s.repo.Totals(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Categories:  categories,
		TotalAssets: total,
		Unassigned:  unassigned,
		OpenAudits:  openAudits,
	}, nil
}
