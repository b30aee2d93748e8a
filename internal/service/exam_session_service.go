package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/exam"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrNoQuestions      = errors.New("no questions match the filter")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptForbidden = errors.New("attempt belongs to another user")
	ErrResultNotReady   = errors.New("attempt not submitted yet")
)

// NoticePersistFailed reports that the result could not be queued for the
// user's history. The result itself is still returned.
const NoticePersistFailed exam.Notice = "persist-failed"

// CatalogProvider supplies the questions of a new attempt.
type CatalogProvider interface {
	FetchQuestions(ctx context.Context, f model.QuestionFilter) ([]exam.Question, error)
	GetPaper(ctx context.Context, id string) (*model.Paper, error)
}

type attemptLister interface {
	ListByUser(ctx context.Context, userID, limit, offset int) ([]model.AttemptSummary, int, error)
}

// attemptRecord is what Redis holds for a live attempt.
type attemptRecord struct {
	ID          uuid.UUID     `json:"id"`
	UserID      int           `json:"user_id"`
	PaperID     string        `json:"paper_id"`
	PaperTitle  string        `json:"paper_title"`
	StartedAt   time.Time     `json:"started_at"`
	Deadline    time.Time     `json:"deadline"`
	DurationSec int           `json:"duration_sec"`
	Session     exam.Snapshot `json:"session"`
}

// resultRecord is the handoff written when an attempt is submitted.
type resultRecord struct {
	AttemptID   uuid.UUID   `json:"attempt_id"`
	UserID      int         `json:"user_id"`
	PaperID     string      `json:"paper_id"`
	PaperTitle  string      `json:"paper_title"`
	Result      exam.Result `json:"result"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
}

// OptionView is one selectable option.
type OptionView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuestionView is the current question as shown to the candidate. It never
// carries the answer key.
type QuestionView struct {
	Index        int          `json:"index"`
	ID           string       `json:"id"`
	Number       int          `json:"number"`
	Subject      string       `json:"subject,omitempty"`
	Section      string       `json:"section,omitempty"`
	QuestionType string       `json:"question_type,omitempty"`
	Instruction  string       `json:"instruction,omitempty"`
	Statement    string       `json:"statement"`
	Texts        []string     `json:"texts,omitempty"`
	PassageText  string       `json:"passage_text,omitempty"`
	ImageURLs    []string     `json:"image_urls,omitempty"`
	ImageAlt     string       `json:"image_alt,omitempty"`
	Marks        int          `json:"marks,omitempty"`
	Options      []OptionView `json:"options"`
}

// NoticeView is a non-fatal message attached to an attempt view.
type NoticeView struct {
	Code    exam.Notice `json:"code"`
	Message string      `json:"message"`
}

func newNoticeView(n exam.Notice) NoticeView {
	msg := n.Message()
	if n == NoticePersistFailed {
		msg = "Your result is ready but could not be saved to your history."
	}
	return NoticeView{Code: n, Message: msg}
}

// AttemptView is the full client state of an attempt.
type AttemptView struct {
	AttemptID        uuid.UUID     `json:"attempt_id"`
	PaperID          string        `json:"paper_id"`
	PaperTitle       string        `json:"paper_title"`
	TotalQuestions   int           `json:"total_questions"`
	CurrentIndex     int           `json:"current_index"`
	Question         *QuestionView `json:"question,omitempty"`
	Draft            exam.Draft    `json:"draft"`
	Palette          exam.Palette  `json:"palette"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Deadline         time.Time     `json:"deadline"`
	Submitted        bool          `json:"submitted"`
	Result           *exam.Result  `json:"result,omitempty"`
	Notices          []NoticeView  `json:"notices,omitempty"`
}

// HasNotice reports whether the view carries the given notice.
func (v *AttemptView) HasNotice(n exam.Notice) bool {
	for _, nv := range v.Notices {
		if nv.Code == n {
			return true
		}
	}
	return false
}

// ResultView is a submitted result ordered for review.
type ResultView struct {
	AttemptID   uuid.UUID         `json:"attempt_id"`
	PaperID     string            `json:"paper_id"`
	PaperTitle  string            `json:"paper_title"`
	Score       int               `json:"score"`
	Total       int               `json:"total"`
	Percentage  int               `json:"percentage"`
	Tally       exam.Tally        `json:"tally"`
	Sort        exam.SortOrder    `json:"sort"`
	Answers     []exam.ReviewItem `json:"answers"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// ExamSessionService hosts exam sessions. Each attempt lives in Redis as a
// snapshot; every operation restores it, catches the countdown up with the
// wall clock, applies the change and stores it again.
type ExamSessionService struct {
	catalog  CatalogProvider
	attempts attemptLister
	rdb      *redis.Client
	cfg      *config.Config
	log      zerolog.Logger
	locks    *keyedMutex
	now      func() time.Time
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(
	catalog CatalogProvider,
	attempts attemptLister,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamSessionService {
	return &ExamSessionService{
		catalog:  catalog,
		attempts: attempts,
		rdb:      rdb,
		cfg:      cfg,
		log:      log.With().Str("component", "exam_session_service").Logger(),
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// Start loads the questions for req and opens a new attempt for userID.
func (s *ExamSessionService) Start(ctx context.Context, userID int, req model.StartAttemptRequest) (*AttemptView, error) {
	questions, err := s.catalog.FetchQuestions(ctx, req.QuestionFilter)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	questions = exam.Dedupe(questions)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	paperID, title, paperMinutes := s.describe(ctx, req.QuestionFilter)

	seconds := req.TimeSeconds
	if seconds <= 0 {
		if paperMinutes > 0 && req.Limit == 0 {
			seconds = paperMinutes * 60
		} else {
			seconds = len(questions) * s.cfg.SecondsPerQuestion
		}
	}

	now := s.now()
	sess := exam.NewSession(questions, seconds)
	rec := &attemptRecord{
		ID:          uuid.New(),
		UserID:      userID,
		PaperID:     paperID,
		PaperTitle:  title,
		StartedAt:   now,
		Deadline:    now.Add(time.Duration(seconds) * time.Second),
		DurationSec: seconds,
		Session:     sess.Snapshot(),
	}

	if err := s.save(ctx, rec, now); err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, config.CacheKey.UserActiveAttemptKey(userID), rec.ID.String(), s.stateTTL(rec, now)).Err(); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Failed to record active attempt")
	}
	if err := s.rdb.ZAdd(ctx, config.WorkerKey.AttemptDeadlines, redis.Z{
		Score:  float64(rec.Deadline.Unix()),
		Member: rec.ID.String(),
	}).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", rec.ID.String()).Msg("Failed to schedule attempt expiry")
	}

	s.log.Info().
		Str("attempt_id", rec.ID.String()).
		Int("user_id", userID).
		Str("paper_id", paperID).
		Int("questions", sess.Len()).
		Int("seconds", seconds).
		Msg("Attempt started")

	return buildView(rec, sess, nil), nil
}

// describe names the attempt after its papers. Practice attempts have no
// paper id. The duration is only reported for single-paper attempts.
func (s *ExamSessionService) describe(ctx context.Context, f model.QuestionFilter) (string, string, int) {
	if !f.ExamMode() {
		if subj := f.SubjectFilter(); subj != "" {
			return "", "Practice: " + subj, 0
		}
		return "", "Practice", 0
	}

	titles := make([]string, 0, len(f.PaperIDs))
	minutes := 0
	for _, id := range f.PaperIDs {
		p, err := s.catalog.GetPaper(ctx, id)
		if err != nil {
			titles = append(titles, id)
			continue
		}
		titles = append(titles, p.Title)
		minutes = p.DurationMinutes
	}
	if len(f.PaperIDs) > 1 {
		minutes = 0
	}
	return strings.Join(f.PaperIDs, ","), strings.Join(titles, " + "), minutes
}

// Get returns the current view of an attempt, submitting it first if its
// deadline has passed.
func (s *ExamSessionService) Get(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, nil)
}

// Active returns the user's most recently started attempt if it is still
// running.
func (s *ExamSessionService) Active(ctx context.Context, userID int) (*AttemptView, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.UserActiveAttemptKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get active attempt: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrAttemptNotFound
	}
	view, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if view.Submitted && !view.HasNotice(exam.NoticeTimeUp) {
		return nil, ErrAttemptNotFound
	}
	return view, nil
}

// Select sets the draft response of the current question.
func (s *ExamSessionService) Select(ctx context.Context, attemptID uuid.UUID, userID int, option string) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return "", sess.Select(option)
	})
}

// SetReview sets the draft review flag of the current question.
func (s *ExamSessionService) SetReview(ctx context.Context, attemptID uuid.UUID, userID int, marked bool) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return "", sess.SetMarkedForReview(marked)
	})
}

// Clear empties the draft response of the current question.
func (s *ExamSessionService) Clear(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return "", sess.ClearResponse()
	})
}

// SaveAndNext commits the draft and advances.
func (s *ExamSessionService) SaveAndNext(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return sess.SaveAndNext()
	})
}

// SaveAndMark commits the draft flagged for review and advances.
func (s *ExamSessionService) SaveAndMark(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return sess.SaveAndMarkForReview()
	})
}

// Navigate commits the draft and jumps to index.
func (s *ExamSessionService) Navigate(ctx context.Context, attemptID uuid.UUID, userID int, index int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		return "", sess.NavigateToQuestion(index)
	})
}

// Submit finishes the attempt. Submitting twice returns the same result.
func (s *ExamSessionService) Submit(ctx context.Context, attemptID uuid.UUID, userID int) (*AttemptView, error) {
	return s.apply(ctx, attemptID, userID, func(sess *exam.Session) (exam.Notice, error) {
		sess.Submit()
		return "", nil
	})
}

type sessionOp func(*exam.Session) (exam.Notice, error)

func (s *ExamSessionService) apply(ctx context.Context, attemptID uuid.UUID, userID int, op sessionOp) (*AttemptView, error) {
	unlock := s.locks.Lock(attemptID.String())
	defer unlock()

	rec, err := s.load(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrAttemptForbidden
	}

	now := s.now()
	var committed []model.AttemptAnswer
	var submitted *exam.Result

	sess, err := exam.Restore(rec.Session,
		exam.WithCommitHook(func(_ int, q exam.Question, a exam.AnswerState) {
			committed = append(committed, model.AttemptAnswer{
				AttemptID:  rec.ID,
				UserID:     rec.UserID,
				QuestionID: q.ID,
				Selected:   a.Response,
				IsCorrect:  a.IsCorrect,
				AnsweredAt: now,
			})
		}),
		exam.WithSubmitHook(func(r exam.Result) {
			submitted = &r
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("restore attempt %s: %w", attemptID, err)
	}

	var notices []exam.Notice
	if _, fired := sess.Advance(elapsedTicks(rec.Deadline, sess.Remaining(), now)); fired {
		notices = append(notices, exam.NoticeTimeUp)
	}

	if op != nil && submitted == nil {
		notice, err := op(sess)
		if err != nil {
			return nil, err
		}
		if notice != "" {
			notices = append(notices, notice)
		}
	}

	rec.Session = sess.Snapshot()
	if err := s.save(ctx, rec, now); err != nil {
		return nil, err
	}
	if submitted != nil {
		s.unschedule(ctx, rec.ID.String())
	}

	persistFailed := false
	if len(committed) > 0 && !s.enqueueAnswers(ctx, committed) {
		persistFailed = true
	}
	if submitted != nil {
		if !s.handoff(ctx, rec, *submitted, now) {
			persistFailed = true
		}
		s.log.Info().
			Str("attempt_id", rec.ID.String()).
			Int("user_id", rec.UserID).
			Int("score", submitted.Score).
			Int("total", submitted.Total).
			Bool("timed_out", len(notices) > 0 && notices[0] == exam.NoticeTimeUp).
			Msg("Attempt submitted")
	}
	if persistFailed {
		notices = append(notices, NoticePersistFailed)
	}

	return buildView(rec, sess, notices), nil
}

// ExpireDue submits every running attempt whose deadline has passed. It
// covers attempts whose client went away before time ran out, so their
// result still reaches the history. It returns how many were submitted.
func (s *ExamSessionService) ExpireDue(ctx context.Context) (int, error) {
	ids, err := s.rdb.ZRangeByScore(ctx, config.WorkerKey.AttemptDeadlines, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(s.now().Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list due attempts: %w", err)
	}

	expired := 0
	for _, id := range ids {
		attemptID, err := uuid.Parse(id)
		if err != nil {
			s.unschedule(ctx, id)
			continue
		}
		rec, err := s.load(ctx, attemptID)
		if errors.Is(err, ErrAttemptNotFound) {
			s.unschedule(ctx, id)
			continue
		}
		if err != nil {
			s.log.Warn().Err(err).Str("attempt_id", id).Msg("Failed to load due attempt")
			continue
		}
		if rec.Session.Result != nil {
			s.unschedule(ctx, id)
			continue
		}

		view, err := s.apply(ctx, attemptID, rec.UserID, nil)
		if err != nil {
			s.log.Warn().Err(err).Str("attempt_id", id).Msg("Failed to expire attempt")
			continue
		}
		if view.Submitted {
			expired++
		}
	}
	return expired, nil
}

func (s *ExamSessionService) unschedule(ctx context.Context, attemptID string) {
	if err := s.rdb.ZRem(ctx, config.WorkerKey.AttemptDeadlines, attemptID).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attemptID).Msg("Failed to unschedule attempt expiry")
	}
}

// elapsedTicks is how many countdown seconds have to be applied so that
// remaining matches the wall clock. Partial seconds are not yet elapsed.
func elapsedTicks(deadline time.Time, remaining int, now time.Time) int {
	target := int(math.Ceil(deadline.Sub(now).Seconds()))
	if target < 0 {
		target = 0
	}
	if ticks := remaining - target; ticks > 0 {
		return ticks
	}
	return 0
}

func (s *ExamSessionService) load(ctx context.Context, attemptID uuid.UUID) (*attemptRecord, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.AttemptStateKey(attemptID.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	var rec attemptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	return &rec, nil
}

func (s *ExamSessionService) save(ctx context.Context, rec *attemptRecord, now time.Time) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.AttemptStateKey(rec.ID.String()), data, s.stateTTL(rec, now)).Err(); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

// stateTTL keeps a running attempt until its deadline plus grace, and a
// submitted one as long as its result.
func (s *ExamSessionService) stateTTL(rec *attemptRecord, now time.Time) time.Duration {
	if rec.Session.Result != nil {
		return s.cfg.ResultTTL
	}
	ttl := rec.Deadline.Sub(now) + s.cfg.AttemptGrace
	if ttl < s.cfg.AttemptGrace {
		ttl = s.cfg.AttemptGrace
	}
	return ttl
}

// enqueueAnswers hands committed answers to the answer worker.
func (s *ExamSessionService) enqueueAnswers(ctx context.Context, answers []model.AttemptAnswer) bool {
	pipe := s.rdb.Pipeline()
	for _, a := range answers {
		payload, err := json.Marshal(a)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to encode answer payload")
			continue
		}
		pipe.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error().Err(err).Int("answers", len(answers)).Msg("Failed to enqueue answers")
		return false
	}
	return true
}

// handoff stores the result for the results page and queues the summary
// for the attempt worker. It reports false if either step failed.
func (s *ExamSessionService) handoff(ctx context.Context, rec *attemptRecord, res exam.Result, completedAt time.Time) bool {
	ok := true
	attemptID := rec.ID.String()

	rr := resultRecord{
		AttemptID:   rec.ID,
		UserID:      rec.UserID,
		PaperID:     rec.PaperID,
		PaperTitle:  rec.PaperTitle,
		Result:      res,
		StartedAt:   rec.StartedAt,
		CompletedAt: completedAt,
	}
	data, err := json.Marshal(rr)
	if err == nil {
		err = s.rdb.Set(ctx, config.CacheKey.AttemptResultKey(attemptID), data, s.cfg.ResultTTL).Err()
	}
	if err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to store result")
		ok = false
	}

	duration := int(completedAt.Sub(rec.StartedAt).Seconds())
	if duration > rec.DurationSec {
		duration = rec.DurationSec
	}
	tally := res.Tally()
	summary := model.AttemptSummary{
		ID:          rec.ID,
		UserID:      rec.UserID,
		PaperID:     rec.PaperID,
		PaperTitle:  rec.PaperTitle,
		Attempted:   tally.Attempted,
		Correct:     tally.Correct,
		Wrong:       tally.Wrong,
		Skipped:     tally.Skipped,
		Score:       res.Score,
		Total:       res.Total,
		DurationSec: duration,
		StartedAt:   rec.StartedAt,
		CompletedAt: completedAt,
	}
	payload, err := json.Marshal(summary)
	if err == nil {
		err = s.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, payload).Err()
	}
	if err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to enqueue attempt summary")
		ok = false
	}

	return ok
}

// Result returns the submitted result of an attempt ordered for review.
func (s *ExamSessionService) Result(ctx context.Context, attemptID uuid.UUID, userID int, order exam.SortOrder) (*ResultView, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.AttemptResultKey(attemptID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		rec, loadErr := s.load(ctx, attemptID)
		if loadErr != nil {
			return nil, loadErr
		}
		if rec.UserID != userID {
			return nil, ErrAttemptForbidden
		}
		if rec.Session.Result == nil {
			return nil, ErrResultNotReady
		}
		// The handoff write failed; the snapshot still has the result.
		data, err = json.Marshal(resultRecord{
			AttemptID:  rec.ID,
			UserID:     rec.UserID,
			PaperID:    rec.PaperID,
			PaperTitle: rec.PaperTitle,
			Result:     *rec.Session.Result,
			StartedAt:  rec.StartedAt,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}

	var rr resultRecord
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if rr.UserID != userID {
		return nil, ErrAttemptForbidden
	}

	return &ResultView{
		AttemptID:   rr.AttemptID,
		PaperID:     rr.PaperID,
		PaperTitle:  rr.PaperTitle,
		Score:       rr.Result.Score,
		Total:       rr.Result.Total,
		Percentage:  rr.Result.Percentage(),
		Tally:       rr.Result.Tally(),
		Sort:        order,
		Answers:     rr.Result.Sorted(order),
		StartedAt:   rr.StartedAt,
		CompletedAt: rr.CompletedAt,
	}, nil
}

// History pages through the user's persisted attempts.
func (s *ExamSessionService) History(ctx context.Context, userID int, q model.AttemptHistoryQuery) ([]model.AttemptSummary, *response.Pagination, error) {
	q.Normalize()
	items, total, err := s.attempts.ListByUser(ctx, userID, q.PerPage, q.Offset())
	if err != nil {
		return nil, nil, fmt.Errorf("list attempts: %w", err)
	}
	return items, response.NewPagination(q.Page, q.PerPage, total), nil
}

func buildView(rec *attemptRecord, sess *exam.Session, notices []exam.Notice) *AttemptView {
	view := &AttemptView{
		AttemptID:        rec.ID,
		PaperID:          rec.PaperID,
		PaperTitle:       rec.PaperTitle,
		TotalQuestions:   sess.Len(),
		CurrentIndex:     sess.Current(),
		Draft:            sess.Draft(),
		Palette:          sess.Palette(),
		RemainingSeconds: sess.Remaining(),
		Deadline:         rec.Deadline,
		Submitted:        sess.Submitted(),
	}
	if res, ok := sess.Result(); ok {
		view.Result = &res
	}
	if q, ok := sess.CurrentQuestion(); ok {
		view.Question = newQuestionView(sess.Current(), q)
	}
	for _, n := range notices {
		view.Notices = append(view.Notices, newNoticeView(n))
	}
	return view
}

func newQuestionView(index int, q exam.Question) *QuestionView {
	opts := make([]OptionView, len(q.Options))
	for i, text := range q.Options {
		opts[i] = OptionView{Key: exam.OptionLetter(i), Text: text}
	}
	return &QuestionView{
		Index:        index,
		ID:           q.ID,
		Number:       q.Number,
		Subject:      q.Subject,
		Section:      q.Section,
		QuestionType: q.QuestionType,
		Instruction:  q.Instruction,
		Statement:    q.Statement,
		Texts:        q.Texts,
		PassageText:  q.PassageText,
		ImageURLs:    q.ImageURLs,
		ImageAlt:     q.ImageAlt,
		Marks:        q.Marks,
		Options:      opts,
	}
}
