package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrPaperNotFound is returned when a paper id is unknown.
var ErrPaperNotFound = errors.New("paper not found")

// ImportError lists the problems found in a paper import.
type ImportError struct {
	Fields map[string]string
}

func (e *ImportError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	return "invalid paper import: " + strings.Join(parts, "; ")
}

type paperStore interface {
	GetByID(ctx context.Context, id string) (*model.Paper, error)
	ListPaginated(ctx context.Context, q model.PaperListQuery) ([]model.Paper, int, error)
	ListIDs(ctx context.Context) ([]string, error)
	ListSubjects(ctx context.Context) ([]string, error)
	Import(ctx context.Context, p *model.Paper, passages []exam.Passage, questions []exam.RawQuestion) error
}

type questionStore interface {
	ListByPaper(ctx context.Context, paperID string) ([]exam.RawQuestion, error)
	ListByFilter(ctx context.Context, f model.QuestionFilter, limit int) ([]exam.RawQuestion, error)
	ListPassages(ctx context.Context, paperIDs, passageIDs []string) ([]exam.Passage, error)
	ListSubjectsByPaper(ctx context.Context, paperID string) ([]string, error)
}

// CatalogService serves papers and questions and keeps the per-paper
// question cache in Redis.
type CatalogService struct {
	papers    paperStore
	questions questionStore
	rdb       *redis.Client
	cfg       *config.Config
	log       zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(papers paperStore, questions questionStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		papers:    papers,
		questions: questions,
		rdb:       rdb,
		cfg:       cfg,
		log:       log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListPapers returns one page of papers.
func (s *CatalogService) ListPapers(ctx context.Context, q model.PaperListQuery) ([]model.Paper, *response.Pagination, error) {
	q.Normalize()
	papers, total, err := s.papers.ListPaginated(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("list papers: %w", err)
	}
	return papers, response.NewPagination(q.Page, q.PerPage, total), nil
}

// GetPaper returns one paper.
func (s *CatalogService) GetPaper(ctx context.Context, id string) (*model.Paper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("get paper: %w", err)
	}
	return p, nil
}

// ListPaperSubjects returns the subjects of a paper. The paper's declared
// subjects win; otherwise they are collected from its questions.
func (s *CatalogService) ListPaperSubjects(ctx context.Context, paperID string) ([]string, error) {
	p, err := s.GetPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if len(p.Subjects) > 0 {
		return p.Subjects, nil
	}
	return s.questions.ListSubjectsByPaper(ctx, paperID)
}

// ListSubjects returns every subject in the catalog.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]string, error) {
	return s.papers.ListSubjects(ctx)
}

// FetchQuestions resolves a filter to enriched questions.
//
// With paper ids every question of those papers is returned in paper order
// then number order, and the practice filters are ignored. Without paper ids
// the difficulty, subject and type filters select across the catalog. The
// limit caps both modes. Questions are never shuffled. An empty result is
// not an error.
func (s *CatalogService) FetchQuestions(ctx context.Context, f model.QuestionFilter) ([]exam.Question, error) {
	if f.ExamMode() {
		var out []exam.Question
		for _, id := range f.PaperIDs {
			qs, err := s.paperQuestions(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, qs...)
		}
		if f.Limit > 0 && len(out) > f.Limit {
			out = out[:f.Limit]
		}
		return out, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultQuizLimit
	}
	if limit > s.cfg.MaxQuizLimit {
		limit = s.cfg.MaxQuizLimit
	}

	raws, err := s.questions.ListByFilter(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return s.enrich(ctx, raws)
}

func (s *CatalogService) enrich(ctx context.Context, raws []exam.RawQuestion) ([]exam.Question, error) {
	passageIDs := exam.PassageIDs(raws)
	if len(passageIDs) == 0 {
		return exam.Enrich(raws, nil), nil
	}

	seen := make(map[string]struct{})
	var paperIDs []string
	for _, r := range raws {
		if _, ok := seen[r.PaperID]; !ok {
			seen[r.PaperID] = struct{}{}
			paperIDs = append(paperIDs, r.PaperID)
		}
	}

	passages, err := s.questions.ListPassages(ctx, paperIDs, passageIDs)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	return exam.Enrich(raws, passages), nil
}

// paperQuestions returns a paper's enriched questions, from cache if present.
func (s *CatalogService) paperQuestions(ctx context.Context, paperID string) ([]exam.Question, error) {
	key := config.CacheKey.PaperQuestionsKey(paperID)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var qs []exam.Question
		if jsonErr := json.Unmarshal(data, &qs); jsonErr == nil {
			return qs, nil
		}
		s.log.Warn().Str("paper_id", paperID).Msg("Discarding unreadable question cache")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("paper_id", paperID).Msg("Question cache read failed, using database")
	}

	qs, err := s.loadPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if len(qs) > 0 {
		s.store(ctx, paperID, qs)
	}
	return qs, nil
}

func (s *CatalogService) loadPaper(ctx context.Context, paperID string) ([]exam.Question, error) {
	raws, err := s.questions.ListByPaper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("list paper questions: %w", err)
	}
	return s.enrich(ctx, raws)
}

func (s *CatalogService) store(ctx context.Context, paperID string, qs []exam.Question) {
	data, err := json.Marshal(qs)
	if err != nil {
		s.log.Error().Err(err).Str("paper_id", paperID).Msg("Failed to encode question cache")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.PaperQuestionsKey(paperID), data, s.cfg.CatalogCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("paper_id", paperID).Msg("Failed to write question cache")
	}
}

// WarmPaperCache reloads one paper's questions from the database into the
// cache and returns how many were cached.
func (s *CatalogService) WarmPaperCache(ctx context.Context, paperID string) (int, error) {
	if _, err := s.GetPaper(ctx, paperID); err != nil {
		return 0, err
	}
	qs, err := s.loadPaper(ctx, paperID)
	if err != nil {
		return 0, err
	}
	if len(qs) == 0 {
		s.rdb.Del(ctx, config.CacheKey.PaperQuestionsKey(paperID))
		return 0, nil
	}
	s.store(ctx, paperID, qs)
	return len(qs), nil
}

// PrewarmAllCaches loads every paper into the cache. Failures are logged
// per paper and do not stop the others.
func (s *CatalogService) PrewarmAllCaches(ctx context.Context) error {
	ids, err := s.papers.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list paper ids: %w", err)
	}

	warmed := 0
	for _, id := range ids {
		if _, err := s.WarmPaperCache(ctx, id); err != nil {
			s.log.Error().Err(err).Str("paper_id", id).Msg("Failed to prewarm paper cache")
			continue
		}
		warmed++
	}

	s.log.Info().Int("papers", warmed).Msg("Catalog cache prewarmed")
	return nil
}

// Import validates and stores a complete paper, replacing any previous
// version, then refreshes its cache.
func (s *CatalogService) Import(ctx context.Context, req model.ImportPaperRequest) (*model.ImportPaperResponse, error) {
	paper, passages, raws, err := buildImport(req)
	if err != nil {
		return nil, err
	}

	if err := s.papers.Import(ctx, paper, passages, raws); err != nil {
		return nil, fmt.Errorf("import paper: %w", err)
	}

	if _, err := s.WarmPaperCache(ctx, paper.ID); err != nil {
		s.log.Warn().Err(err).Str("paper_id", paper.ID).Msg("Imported paper but cache refresh failed")
	}

	s.log.Info().
		Str("paper_id", paper.ID).
		Int("questions", len(raws)).
		Int("passages", len(passages)).
		Msg("Paper imported")

	return &model.ImportPaperResponse{Paper: *paper, Questions: len(raws), Passages: len(passages)}, nil
}

// buildImport checks cross-field rules the binding tags cannot express and
// derives the paper totals.
func buildImport(req model.ImportPaperRequest) (*model.Paper, []exam.Passage, []exam.RawQuestion, error) {
	fields := make(map[string]string)

	passageIDs := make(map[string]struct{}, len(req.Passages))
	passages := make([]exam.Passage, 0, len(req.Passages))
	for i, p := range req.Passages {
		if _, dup := passageIDs[p.ID]; dup {
			fields[fmt.Sprintf("passages[%d].id", i)] = "duplicate passage id " + p.ID
			continue
		}
		passageIDs[p.ID] = struct{}{}
		passages = append(passages, exam.Passage{ID: p.ID, PaperID: req.ID, Section: p.Section, Text: p.Text, Source: p.Source})
	}

	paper := &model.Paper{
		ID:              req.ID,
		Title:           req.Title,
		Year:            req.Year,
		Exam:            req.Exam,
		DurationMinutes: req.DurationMinutes,
		Sections:        req.Sections,
	}

	questionIDs := make(map[string]struct{}, len(req.Questions))
	subjects := newOrderedSet()
	types := newOrderedSet()
	sections := newOrderedSet()
	raws := make([]exam.RawQuestion, 0, len(req.Questions))

	for i, q := range req.Questions {
		if _, dup := questionIDs[q.ID]; dup {
			fields[fmt.Sprintf("questions[%d].id", i)] = "duplicate question id " + q.ID
			continue
		}
		questionIDs[q.ID] = struct{}{}

		if q.PassageID != "" {
			if _, ok := passageIDs[q.PassageID]; !ok {
				fields[fmt.Sprintf("questions[%d].passage_id", i)] = "unknown passage " + q.PassageID
			}
		}
		if len(q.Answer) != 1 || int(q.Answer[0]-'A') >= len(q.Options) {
			fields[fmt.Sprintf("questions[%d].answer", i)] = fmt.Sprintf("answer %s has no matching option", q.Answer)
		}

		subjects.add(q.Subject)
		types.add(q.QuestionType)
		sections.add(q.Section)

		raws = append(raws, exam.RawQuestion{
			ID:           q.ID,
			PaperID:      req.ID,
			Number:       q.Number,
			Subject:      q.Subject,
			Section:      q.Section,
			QuestionType: q.QuestionType,
			Difficulty:   q.Difficulty,
			PassageID:    q.PassageID,
			Instruction:  q.Instruction,
			Statement:    q.Statement,
			Texts:        q.Texts,
			Options:      q.Options,
			Answer:       q.Answer,
			Marks:        q.Marks,
			ImageURLs:    q.ImageURLs,
			ImageAlt:     q.ImageAlt,
		})
		paper.TotalMarks += q.Marks
	}

	if len(fields) > 0 {
		return nil, nil, nil, &ImportError{Fields: fields}
	}

	sort.SliceStable(raws, func(i, j int) bool { return raws[i].Number < raws[j].Number })

	paper.TotalQuestions = len(raws)
	paper.Subjects = subjects.items
	paper.QuestionTypes = types.items
	if len(paper.Sections) == 0 {
		paper.Sections = sections.items
	}
	return paper, passages, raws, nil
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (o *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := o.seen[v]; ok {
		return
	}
	o.seen[v] = struct{}{}
	o.items = append(o.items, v)
}
