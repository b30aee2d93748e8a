package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/model"
)

// QuestionRepository handles question and passage data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, paper_id, number, subject, section, question_type, difficulty, passage_id,
	instruction, statement, texts, options, answer, marks, image_urls, image_alt`

func scanQuestions(rows pgx.Rows) ([]exam.RawQuestion, error) {
	defer rows.Close()

	var questions []exam.RawQuestion
	for rows.Next() {
		var q exam.RawQuestion
		if err := rows.Scan(&q.ID, &q.PaperID, &q.Number, &q.Subject, &q.Section, &q.QuestionType,
			&q.Difficulty, &q.PassageID, &q.Instruction, &q.Statement, &q.Texts, &q.Options,
			&q.Answer, &q.Marks, &q.ImageURLs, &q.ImageAlt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListByPaper retrieves all questions of a paper, ordered by number.
func (r *QuestionRepository) ListByPaper(ctx context.Context, paperID string) ([]exam.RawQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE paper_id = $1 ORDER BY number, id`, paperID)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

// ListByFilter retrieves questions across papers matching the practice
// filters, ordered by paper then number, capped at limit.
func (r *QuestionRepository) ListByFilter(ctx context.Context, f model.QuestionFilter, limit int) ([]exam.RawQuestion, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []any

	if d := f.DifficultyFilter(); len(d) > 0 {
		args = append(args, d)
		query += fmt.Sprintf(" AND difficulty = ANY($%d)", len(args))
	}
	if s := f.SubjectFilter(); s != "" {
		args = append(args, s)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if len(f.QuestionTypes) > 0 {
		args = append(args, f.QuestionTypes)
		query += fmt.Sprintf(" AND question_type = ANY($%d)", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY paper_id, number, id LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

// ListPassages retrieves the passages referenced by questions. Keys pair a
// paper id with a passage id.
func (r *QuestionRepository) ListPassages(ctx context.Context, paperIDs, passageIDs []string) ([]exam.Passage, error) {
	if len(passageIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, paper_id, section, text, source FROM passages
		 WHERE paper_id = ANY($1) AND id = ANY($2)`, paperIDs, passageIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passages []exam.Passage
	for rows.Next() {
		var p exam.Passage
		if err := rows.Scan(&p.ID, &p.PaperID, &p.Section, &p.Text, &p.Source); err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// ListSubjectsByPaper returns the distinct subjects of one paper.
func (r *QuestionRepository) ListSubjectsByPaper(ctx context.Context, paperID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT subject FROM questions WHERE paper_id = $1 AND subject <> '' ORDER BY subject`, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
