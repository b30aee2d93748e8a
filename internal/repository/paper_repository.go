package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/model"
)

// PaperRepository handles paper data access.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

const paperColumns = `id, title, year, exam, duration_minutes, sections, subjects, question_types,
	total_questions, total_marks, created_at, updated_at`

func scanPaper(row pgx.Row, p *model.Paper) error {
	return row.Scan(&p.ID, &p.Title, &p.Year, &p.Exam, &p.DurationMinutes, &p.Sections, &p.Subjects,
		&p.QuestionTypes, &p.TotalQuestions, &p.TotalMarks, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a paper by ID.
func (r *PaperRepository) GetByID(ctx context.Context, id string) (*model.Paper, error) {
	p := &model.Paper{}
	if err := scanPaper(r.pool.QueryRow(ctx, `SELECT `+paperColumns+` FROM papers WHERE id = $1`, id), p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPaginated lists papers newest year first, optionally filtered by exam
// and year.
func (r *PaperRepository) ListPaginated(ctx context.Context, q model.PaperListQuery) ([]model.Paper, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if q.Exam != "" {
		args = append(args, q.Exam)
		where += fmt.Sprintf(" AND exam = $%d", len(args))
	}
	if q.Year > 0 {
		args = append(args, q.Year)
		where += fmt.Sprintf(" AND year = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM papers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paperColumns + ` FROM papers` + where +
		fmt.Sprintf(" ORDER BY year DESC, title ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.PerPage, q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	papers := []model.Paper{}
	for rows.Next() {
		var p model.Paper
		if err := scanPaper(rows, &p); err != nil {
			return nil, 0, err
		}
		papers = append(papers, p)
	}
	return papers, total, rows.Err()
}

// ListIDs returns the ids of every paper. Used to prewarm the catalog cache.
func (r *PaperRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM papers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSubjects returns every distinct subject across the catalog.
func (r *PaperRepository) ListSubjects(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT subject FROM questions WHERE subject <> '' ORDER BY subject`)
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

// Import replaces a paper together with all of its passages and questions
// in one transaction.
func (r *PaperRepository) Import(ctx context.Context, p *model.Paper, passages []exam.Passage, questions []exam.RawQuestion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO papers (id, title, year, exam, duration_minutes, sections, subjects, question_types, total_questions, total_marks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title, year = EXCLUDED.year, exam = EXCLUDED.exam,
		   duration_minutes = EXCLUDED.duration_minutes, sections = EXCLUDED.sections,
		   subjects = EXCLUDED.subjects, question_types = EXCLUDED.question_types,
		   total_questions = EXCLUDED.total_questions, total_marks = EXCLUDED.total_marks,
		   updated_at = NOW()
		 RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Year, p.Exam, p.DurationMinutes, nonNil(p.Sections), nonNil(p.Subjects),
		nonNil(p.QuestionTypes), p.TotalQuestions, p.TotalMarks,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert paper: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE paper_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM passages WHERE paper_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear passages: %w", err)
	}

	batch := &pgx.Batch{}
	for _, ps := range passages {
		batch.Queue(
			`INSERT INTO passages (paper_id, id, section, text, source) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, ps.ID, ps.Section, ps.Text, ps.Source,
		)
	}
	for _, q := range questions {
		batch.Queue(
			`INSERT INTO questions (id, paper_id, number, subject, section, question_type, difficulty, passage_id,
			   instruction, statement, texts, options, answer, marks, image_urls, image_alt)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			q.ID, p.ID, q.Number, q.Subject, q.Section, q.QuestionType, q.Difficulty, q.PassageID,
			q.Instruction, q.Statement, nonNil(q.Texts), nonNil(q.Options), q.Answer, q.Marks,
			nonNil(q.ImageURLs), q.ImageAlt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert paper content: %w", err)
	}

	return tx.Commit(ctx)
}

// nonNil keeps NOT NULL text[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
