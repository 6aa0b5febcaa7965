package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

const (
	// PlanExcerptChars bounds how much of each material's text reaches the
	// plan prompt.
	PlanExcerptChars = 3000
	// MaxMaterialsPerSubject bounds how many files per subject are excerpted.
	MaxMaterialsPerSubject = 2

	maxExtractWorkers = 4
)

// GeneratePlanInput carries everything plan generation needs besides the
// caller's identity.
type GeneratePlanInput struct {
	ExamIDs          []uuid.UUID
	StudyHoursPerDay int
	StartDate        string
	AdditionalNotes  string
}

// UpdatePlanInput is a partial plan document for merge updates. Nil fields
// leave the stored value untouched; a non-nil CompletedTasks replaces the
// stored map wholesale.
type UpdatePlanInput struct {
	PlanName       *string
	DailyPlan      []types.DailyPlan
	Tips           []string
	CompletedTasks map[string]bool
}

type StudyPlanService interface {
	// GeneratePlan builds the prompt from the user's exams and material
	// excerpts, calls the model, and returns the normalized plan document
	// together with the computed study window. Nothing is persisted.
	GeneratePlan(ctx context.Context, userID uuid.UUID, input GeneratePlanInput) (*types.PlanDocument, StudyWindow, error)
	// SavePlan inserts a new plan row; the newest row becomes the current
	// plan.
	SavePlan(ctx context.Context, userID uuid.UUID, planName, startDate, endDate string, doc *types.PlanDocument) (*types.StudyPlan, error)
	// GetCurrentPlan returns the most recently created plan, or nil when the
	// user has none.
	GetCurrentPlan(ctx context.Context, userID uuid.UUID) (*types.StudyPlan, error)
	UpdatePlan(ctx context.Context, userID, planID uuid.UUID, input UpdatePlanInput) (*types.StudyPlan, error)
	// ToggleTask sets one positional completion key ("{date}-{index}") to the
	// requested state and returns the updated document. Setting the same state
	// twice is a no-op, so retried requests are safe.
	ToggleTask(ctx context.Context, userID, planID uuid.UUID, taskID string, completed bool) (*types.PlanDocument, error)
	// AddTask appends the task to the matching day, or inserts a new day in
	// sorted position. Existing task order never changes: completion keys are
	// positional.
	AddTask(ctx context.Context, userID, planID uuid.UUID, date string, task types.Task) (*types.PlanDocument, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
}

type studyPlanService struct {
	db           *gorm.DB
	log          *logger.Logger
	openai       OpenAIClient
	examRepo     repos.ExamRepo
	subjectRepo  repos.SubjectRepo
	materialRepo repos.StudyMaterialRepo
	planRepo     repos.StudyPlanRepo
	bucket       BucketService
}

func NewStudyPlanService(
	db *gorm.DB,
	baseLog *logger.Logger,
	openai OpenAIClient,
	examRepo repos.ExamRepo,
	subjectRepo repos.SubjectRepo,
	materialRepo repos.StudyMaterialRepo,
	planRepo repos.StudyPlanRepo,
	bucket BucketService,
) StudyPlanService {
	return &studyPlanService{
		db:           db,
		log:          baseLog.With("service", "StudyPlanService"),
		openai:       openai,
		examRepo:     examRepo,
		subjectRepo:  subjectRepo,
		materialRepo: materialRepo,
		planRepo:     planRepo,
		bucket:       bucket,
	}
}

func (ps *studyPlanService) GeneratePlan(ctx context.Context, userID uuid.UUID, input GeneratePlanInput) (*types.PlanDocument, StudyWindow, error) {
	if len(input.ExamIDs) == 0 {
		return nil, StudyWindow{}, apierr.Validation("at least one exam is required")
	}
	if input.StudyHoursPerDay <= 0 {
		return nil, StudyWindow{}, apierr.Validation("study hours per day must be positive")
	}
	startDate := input.StartDate
	if startDate == "" {
		startDate = time.Now().Format(dateLayout)
	}

	planExams, subjectIDs, err := ps.loadPlanExams(ctx, userID, input.ExamIDs)
	if err != nil {
		return nil, StudyWindow{}, err
	}

	window, err := ComputeStudyWindow(startDate, planExams)
	if err != nil {
		return nil, StudyWindow{}, err
	}
	sortedExams := SortExamsByDate(planExams)

	materials := ps.collectMaterialExcerpts(ctx, userID, subjectIDs)

	prompt := buildPlanPrompt(sortedExams, window, input.StudyHoursPerDay, input.AdditionalNotes, materials)
	content, err := ps.openai.Complete(ctx, planSystemPrompt, prompt, 0.7, 3000)
	if err != nil {
		ps.log.Error("GeneratePlan completion failed", "error", err, "user_id", userID)
		return nil, StudyWindow{}, apierr.Upstream(fmt.Errorf("generate study plan: %w", err))
	}

	doc, err := normalizePlanOutput(content, window, input.StudyHoursPerDay, sortedExams)
	if err != nil {
		return nil, StudyWindow{}, err
	}
	return doc, window, nil
}

// loadPlanExams resolves exam rows to prompt-ready entries, joining subject
// names, and rejects exams the caller does not own.
func (ps *studyPlanService) loadPlanExams(ctx context.Context, userID uuid.UUID, examIDs []uuid.UUID) ([]PlanExam, []uuid.UUID, error) {
	exams, err := ps.examRepo.GetByIDs(ctx, nil, examIDs)
	if err != nil {
		return nil, nil, apierr.Persistence(fmt.Errorf("load exams: %w", err))
	}
	if len(exams) != len(examIDs) {
		return nil, nil, apierr.NotFound("one or more exams not found")
	}
	subjectIDSet := map[uuid.UUID]struct{}{}
	for _, exam := range exams {
		if exam.UserID != userID {
			return nil, nil, apierr.NotFound("one or more exams not found")
		}
		subjectIDSet[exam.SubjectID] = struct{}{}
	}

	subjectIDs := make([]uuid.UUID, 0, len(subjectIDSet))
	for id := range subjectIDSet {
		subjectIDs = append(subjectIDs, id)
	}
	subjects, err := ps.subjectRepo.GetByIDs(ctx, nil, subjectIDs)
	if err != nil {
		return nil, nil, apierr.Persistence(fmt.Errorf("load subjects: %w", err))
	}
	subjectNames := make(map[uuid.UUID]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
	}

	planExams := make([]PlanExam, 0, len(exams))
	for _, exam := range exams {
		planExams = append(planExams, PlanExam{
			ExamName: exam.ExamName,
			Subject:  subjectNames[exam.SubjectID],
			ExamDate: exam.ExamDate,
			Syllabus: exam.Description,
		})
	}
	return planExams, subjectIDs, nil
}

// collectMaterialExcerpts downloads and extracts up to MaxMaterialsPerSubject
// files per subject concurrently. Extraction failures drop the file from the
// prompt rather than failing generation.
func (ps *studyPlanService) collectMaterialExcerpts(ctx context.Context, userID uuid.UUID, subjectIDs []uuid.UUID) map[string][]MaterialExcerpt {
	subjects, err := ps.subjectRepo.GetByIDs(ctx, nil, subjectIDs)
	if err != nil {
		ps.log.Warn("collectMaterialExcerpts subject load failed", "error", err)
		return nil
	}

	type job struct {
		subjectName string
		material    *types.StudyMaterial
	}
	var jobs []job
	for _, subject := range subjects {
		materials, mErr := ps.materialRepo.GetBySubjectID(ctx, nil, subject.ID)
		if mErr != nil {
			ps.log.Warn("collectMaterialExcerpts material list failed", "error", mErr, "subject_id", subject.ID)
			continue
		}
		count := 0
		for _, material := range materials {
			if material.UserID != userID || material.Status != "uploaded" {
				continue
			}
			jobs = append(jobs, job{subjectName: subject.Name, material: material})
			count++
			if count >= MaxMaterialsPerSubject {
				break
			}
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	var mu sync.Mutex
	excerpts := map[string][]MaterialExcerpt{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxExtractWorkers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			data, dErr := ps.bucket.DownloadFile(gCtx, j.material.StorageKey)
			if dErr != nil {
				ps.log.Warn("excerpt download failed", "error", dErr, "storage_key", j.material.StorageKey)
				return nil
			}
			text, eErr := ExtractText(j.material.FileName, j.material.FileType, data)
			if eErr != nil || len(text) < MinExtractedChars {
				ps.log.Warn("excerpt extraction skipped", "error", eErr, "file_name", j.material.FileName)
				return nil
			}
			text = truncateAtRuneBoundary(text, PlanExcerptChars)
			mu.Lock()
			excerpts[j.subjectName] = append(excerpts[j.subjectName], MaterialExcerpt{
				FileName: j.material.FileName,
				Content:  text,
			})
			mu.Unlock()
			return nil
		})
	}
	// workers never return errors; Wait only observes context cancellation
	_ = g.Wait()
	return excerpts
}

func (ps *studyPlanService) SavePlan(ctx context.Context, userID uuid.UUID, planName, startDate, endDate string, doc *types.PlanDocument) (*types.StudyPlan, error) {
	if doc == nil || len(doc.DailyPlan) == 0 {
		return nil, apierr.Validation("plan data with a daily plan is required")
	}
	if planName == "" {
		planName = "Study Plan"
	}
	if doc.CompletedTasks == nil {
		doc.CompletedTasks = map[string]bool{}
	}
	if doc.Tips == nil {
		doc.Tips = []string{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal plan document: %w", err)
	}

	plan := &types.StudyPlan{
		ID:        uuid.New(),
		UserID:    userID,
		PlanName:  planName,
		StartDate: startDate,
		EndDate:   endDate,
		PlanData:  raw,
	}
	if _, err := ps.planRepo.Create(ctx, nil, plan); err != nil {
		ps.log.Error("SavePlan insert failed", "error", err, "user_id", userID)
		return nil, apierr.Persistence(fmt.Errorf("save study plan: %w", err))
	}
	return plan, nil
}

func (ps *studyPlanService) GetCurrentPlan(ctx context.Context, userID uuid.UUID) (*types.StudyPlan, error) {
	plan, err := ps.planRepo.GetCurrentByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load current plan: %w", err))
	}
	return plan, nil
}

func (ps *studyPlanService) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, input UpdatePlanInput) (*types.StudyPlan, error) {
	plan, doc, err := ps.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if input.DailyPlan != nil {
		doc.DailyPlan = input.DailyPlan
	}
	if input.Tips != nil {
		doc.Tips = input.Tips
	}
	if input.CompletedTasks != nil {
		doc.CompletedTasks = input.CompletedTasks
	}

	if err := ps.persistDocument(ctx, plan, doc); err != nil {
		return nil, err
	}
	if input.PlanName != nil && *input.PlanName != "" {
		if uErr := ps.db.WithContext(ctx).Model(&types.StudyPlan{}).
			Where("id = ? AND user_id = ?", planID, userID).
			Update("plan_name", *input.PlanName).Error; uErr != nil {
			return nil, apierr.Persistence(fmt.Errorf("update plan name: %w", uErr))
		}
		plan.PlanName = *input.PlanName
	}
	return plan, nil
}

func (ps *studyPlanService) ToggleTask(ctx context.Context, userID, planID uuid.UUID, taskID string, completed bool) (*types.PlanDocument, error) {
	if taskID == "" {
		return nil, apierr.Validation("task id is required")
	}
	plan, doc, err := ps.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if doc.CompletedTasks == nil {
		doc.CompletedTasks = map[string]bool{}
	}
	// the map is sparse: incomplete tasks carry no key
	if completed {
		doc.CompletedTasks[taskID] = true
	} else {
		delete(doc.CompletedTasks, taskID)
	}

	if err := ps.persistDocument(ctx, plan, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ps *studyPlanService) AddTask(ctx context.Context, userID, planID uuid.UUID, date string, task types.Task) (*types.PlanDocument, error) {
	if task.Text == "" {
		return nil, apierr.Validation("task text is required")
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apierr.Validation("date must be YYYY-MM-DD")
	}
	plan, doc, err := ps.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	inserted := false
	for i := range doc.DailyPlan {
		if doc.DailyPlan[i].Date == date {
			doc.DailyPlan[i].Tasks = append(doc.DailyPlan[i].Tasks, task)
			inserted = true
			break
		}
	}
	if !inserted {
		newDay := types.DailyPlan{
			Date:  date,
			Day:   parsed.Weekday().String(),
			Tasks: []types.Task{task},
		}
		doc.DailyPlan = append(doc.DailyPlan, newDay)
		sort.SliceStable(doc.DailyPlan, func(i, j int) bool {
			return doc.DailyPlan[i].Date < doc.DailyPlan[j].Date
		})
	}

	if err := ps.persistDocument(ctx, plan, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ps *studyPlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := ps.planRepo.GetByIDForUser(ctx, nil, planID, userID)
	if err != nil {
		return apierr.Persistence(fmt.Errorf("load plan: %w", err))
	}
	if plan == nil {
		return apierr.NotFound("study plan not found")
	}
	if err := ps.planRepo.DeleteByIDForUser(ctx, nil, planID, userID); err != nil {
		return apierr.Persistence(fmt.Errorf("delete plan: %w", err))
	}
	return nil
}

func (ps *studyPlanService) ownedPlan(ctx context.Context, userID, planID uuid.UUID) (*types.StudyPlan, *types.PlanDocument, error) {
	plan, err := ps.planRepo.GetByIDForUser(ctx, nil, planID, userID)
	if err != nil {
		return nil, nil, apierr.Persistence(fmt.Errorf("load plan: %w", err))
	}
	if plan == nil {
		return nil, nil, apierr.NotFound("study plan not found")
	}
	doc, dErr := DecodePlanDocument(plan.PlanData)
	if dErr != nil {
		return nil, nil, dErr
	}
	return plan, doc, nil
}

// DecodePlanDocument parses a stored plan_data blob, normalizing nil
// collections so callers never see a nil completion map.
func DecodePlanDocument(raw []byte) (*types.PlanDocument, error) {
	var doc types.PlanDocument
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, apierr.Persistence(fmt.Errorf("decode plan data: %w", err))
		}
	}
	if doc.CompletedTasks == nil {
		doc.CompletedTasks = map[string]bool{}
	}
	if doc.Tips == nil {
		doc.Tips = []string{}
	}
	return &doc, nil
}

func (ps *studyPlanService) persistDocument(ctx context.Context, plan *types.StudyPlan, doc *types.PlanDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal plan document: %w", err)
	}
	if err := ps.planRepo.UpdatePlanData(ctx, nil, plan.ID, plan.UserID, raw); err != nil {
		ps.log.Error("plan update failed", "error", err, "plan_id", plan.ID)
		return apierr.Persistence(fmt.Errorf("update plan: %w", err))
	}
	plan.PlanData = raw
	return nil
}
