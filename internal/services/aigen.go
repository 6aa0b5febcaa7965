package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type summaryLevel struct {
	maxTokens   int
	temperature float64
	instruction string
}

var summaryLevels = map[string]summaryLevel{
	"brief": {
		maxTokens:   750,
		temperature: 0.5,
		instruction: "Create a concise summary focusing on the most critical concepts and key takeaways. Keep it brief but informative - perfect for quick review.",
	},
	"standard": {
		maxTokens:   2000,
		temperature: 0.7,
		instruction: "Create a comprehensive summary covering all core concepts with clear explanations. Include important definitions and how concepts relate to each other.",
	},
	"detailed": {
		maxTokens:   4000,
		temperature: 0.7,
		instruction: "Create an in-depth, thorough summary that explores all concepts in detail. Include context, examples, connections between ideas, and deeper explanations that promote true understanding.",
	},
}

const summarySystemPrompt = `You are an expert educational tutor helping students prepare for exams. Your summaries should EXPLAIN concepts clearly, not just list topics.

For each key concept you identify:
- Define it in simple, clear terms
- Explain WHY it matters and its significance
- Show HOW it connects to other concepts
- Provide context or examples where helpful

Structure your summary hierarchically: start with core concepts, then supporting details. Use clear headings, bullet points, and formatting to enhance readability.

Write as if teaching a student who needs to truly understand the material, not just memorize it. `

const flashcardSystemPrompt = "You are a helpful study assistant. Create flashcards from study materials. Return ONLY a JSON array of flashcards. Each flashcard should have: question, answer, and difficulty (easy/medium/hard). Create 10-15 flashcards covering the main concepts."

const quizSystemPrompt = "You are a helpful study assistant. Create multiple-choice quiz questions from study materials. Return ONLY a JSON array. Each question should have: question, options (array of 4 strings), correctAnswer (index 0-3), and explanation. Create 10 questions."

const syllabusSystemPrompt = "You are a helpful study assistant. Extract and list ONLY the main topics, chapters, or syllabus items from the provided study material. Ignore preface, author information, publishing details, etc. Format as a clean, comma-separated list of topics. Be concise and focus on the actual subject matter topics."

type AIGenService interface {
	// GenerateSummary produces a free-text summary at the requested detail
	// level (brief, standard, detailed).
	GenerateSummary(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text, detailLevel string) (string, error)
	GenerateFlashcards(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text string) ([]Flashcard, error)
	GenerateQuiz(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text string) ([]QuizQuestion, error)
	// ExtractSyllabus returns the material's main topics as a comma-separated
	// list.
	ExtractSyllabus(ctx context.Context, text string) (string, error)
}

type aiGenService struct {
	db          *gorm.DB
	log         *logger.Logger
	openai      OpenAIClient
	contentRepo repos.GeneratedContentRepo
}

func NewAIGenService(db *gorm.DB, baseLog *logger.Logger, openai OpenAIClient, contentRepo repos.GeneratedContentRepo) AIGenService {
	return &aiGenService{
		db:          db,
		log:         baseLog.With("service", "AIGenService"),
		openai:      openai,
		contentRepo: contentRepo,
	}
}

func (gs *aiGenService) GenerateSummary(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text, detailLevel string) (string, error) {
	if err := validateSourceText(text); err != nil {
		return "", err
	}
	if detailLevel == "" {
		detailLevel = "standard"
	}
	level, ok := summaryLevels[detailLevel]
	if !ok {
		return "", apierr.Validation("invalid detail level. Must be 'brief', 'standard', or 'detailed'")
	}

	system := summarySystemPrompt + level.instruction
	user := fmt.Sprintf("Please create a %s summary of the following study material:\n\n%s", detailLevel, text)

	summary, err := gs.openai.Complete(ctx, system, user, level.temperature, level.maxTokens)
	if err != nil {
		gs.log.Error("GenerateSummary completion failed", "error", err, "user_id", userID)
		return "", apierr.Upstream(fmt.Errorf("generate summary: %w", err))
	}

	gs.persistContent(ctx, userID, materialID, types.ContentTypeSummary, map[string]interface{}{
		"summary":     summary,
		"detailLevel": detailLevel,
	})
	return summary, nil
}

func (gs *aiGenService) GenerateFlashcards(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text string) ([]Flashcard, error) {
	if err := validateSourceText(text); err != nil {
		return nil, err
	}

	user := fmt.Sprintf("Create flashcards from this material:\n\n%s\n\nReturn only a JSON array in this exact format: [{\"question\": \"...\", \"answer\": \"...\", \"difficulty\": \"easy|medium|hard\"}]", text)
	content, err := gs.openai.Complete(ctx, flashcardSystemPrompt, user, 0.7, 2000)
	if err != nil {
		gs.log.Error("GenerateFlashcards completion failed", "error", err, "user_id", userID)
		return nil, apierr.Upstream(fmt.Errorf("generate flashcards: %w", err))
	}

	var flashcards []Flashcard
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &flashcards); err != nil {
		gs.log.Warn("GenerateFlashcards returned non-JSON output", "error", err)
		return nil, apierr.Malformed(fmt.Errorf("failed to parse flashcards from AI response"))
	}

	gs.persistContent(ctx, userID, materialID, types.ContentTypeFlashcard, map[string]interface{}{
		"flashcards": flashcards,
	})
	return flashcards, nil
}

func (gs *aiGenService) GenerateQuiz(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, text string) ([]QuizQuestion, error) {
	if err := validateSourceText(text); err != nil {
		return nil, err
	}

	user := fmt.Sprintf("Create a quiz from this material:\n\n%s\n\nReturn only a JSON array in this exact format: [{\"question\": \"...\", \"options\": [\"A\", \"B\", \"C\", \"D\"], \"correctAnswer\": 0, \"explanation\": \"...\"}]", text)
	content, err := gs.openai.Complete(ctx, quizSystemPrompt, user, 0.7, 2500)
	if err != nil {
		gs.log.Error("GenerateQuiz completion failed", "error", err, "user_id", userID)
		return nil, apierr.Upstream(fmt.Errorf("generate quiz: %w", err))
	}

	var quiz []QuizQuestion
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &quiz); err != nil {
		gs.log.Warn("GenerateQuiz returned non-JSON output", "error", err)
		return nil, apierr.Malformed(fmt.Errorf("failed to parse quiz from AI response"))
	}

	gs.persistContent(ctx, userID, materialID, types.ContentTypeQuiz, map[string]interface{}{
		"quiz": quiz,
	})
	return quiz, nil
}

func (gs *aiGenService) ExtractSyllabus(ctx context.Context, text string) (string, error) {
	if err := validateSourceText(text); err != nil {
		return "", err
	}

	user := fmt.Sprintf("Extract the main topics/syllabus from this study material:\n\n%s\n\nReturn ONLY a clean list of topics, separated by commas. Example: \"Linear equations, Quadratic equations, Factorization, Simultaneous equations\"", text)
	syllabus, err := gs.openai.Complete(ctx, syllabusSystemPrompt, user, 0.3, 500)
	if err != nil {
		gs.log.Error("ExtractSyllabus completion failed", "error", err)
		return "", apierr.Upstream(fmt.Errorf("extract syllabus: %w", err))
	}
	return strings.TrimSpace(syllabus), nil
}

// persistContent records the generated output when it originated from a stored
// material. Persistence is best-effort: the caller already has the content in
// hand, so a failed insert is logged rather than surfaced.
func (gs *aiGenService) persistContent(ctx context.Context, userID uuid.UUID, materialID *uuid.UUID, contentType string, payload map[string]interface{}) {
	if materialID == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		gs.log.Error("persistContent marshal failed", "error", err, "content_type", contentType)
		return
	}
	row := &types.GeneratedContent{
		ID:          uuid.New(),
		UserID:      userID,
		MaterialID:  *materialID,
		ContentType: contentType,
		Content:     raw,
	}
	if _, err := gs.contentRepo.Create(ctx, nil, []*types.GeneratedContent{row}); err != nil {
		gs.log.Error("persistContent insert failed", "error", err, "content_type", contentType, "material_id", *materialID)
	}
}

func validateSourceText(text string) error {
	if len(text) < MinExtractedChars {
		return apierr.Validation("text must be at least 50 characters long")
	}
	return nil
}

// stripCodeFences removes markdown ```json fences the model sometimes wraps
// around structured output.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
