package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

const generateSystemPrompt = "You are a curriculum planner for an online course platform. " +
	"Given a tutor's learning goal, produce a course roadmap. " +
	"Respond with ONLY a JSON object mapping topic names to arrays of subtopic titles, " +
	"in teaching order. No prose, no markdown fences."

const repairSystemPrompt = "The following text was supposed to be a JSON object mapping " +
	"topic names to arrays of subtopic strings but failed to parse. " +
	"Reformat the SAME content as valid JSON. Respond with ONLY the JSON object."

const editSystemPrompt = "You are a curriculum planner revising a course roadmap. " +
	"You get the current roadmap as a JSON hierarchy with ids, and a list of requested changes. " +
	"Apply every change. Respond with ONLY a JSON object mapping topic names to arrays of " +
	"subtopic titles reflecting the revised roadmap, in teaching order."

type draftEngine struct {
	logger     outbound.LoggerPort
	llm        outbound.LLMPort
	draftStore outbound.DraftStorePort
	finalizer  *RoadmapFinalizer
}

func NewDraftEngine(logger outbound.LoggerPort, llm outbound.LLMPort,
	draftStore outbound.DraftStorePort, finalizer *RoadmapFinalizer) inbound.DraftEnginePort {
	return &draftEngine{
		logger:     logger,
		llm:        llm,
		draftStore: draftStore,
		finalizer:  finalizer,
	}
}

func (e *draftEngine) Generate(ctx context.Context, params inbound.GenerateDraftParams) (*domain.DraftView, error) {
	prompt := strings.TrimSpace(params.Prompt)
	if prompt == "" {
		return nil, &domain.ValidationError{Reason: "prompt is empty"}
	}

	raw, err := e.llm.Complete(ctx, outbound.CompletionRequest{
		System:      generateSystemPrompt,
		User:        buildGenerateUserPrompt(prompt, params.Constraints),
		Format:      outbound.CompletionFormatJSON,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, &domain.TransientIOError{Op: "roadmap generation call", Err: err}
	}

	data, err := e.parsePlanWithRepair(ctx, raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	draft := &domain.Draft{
		ID:        uuid.NewString(),
		TutorID:   params.TutorID,
		UserQuery: prompt,
		Data:      data,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.draftStore.Put(ctx, draft, domain.DraftTTL); err != nil {
		return nil, &domain.TransientIOError{Op: "store draft", Err: err}
	}

	e.logger.InfoWithFields("draft generated", map[string]interface{}{
		"draft_id":  draft.ID,
		"topics":    len(draft.Data),
		"subtopics": draft.Data.TotalSubtopics(),
	})

	return domain.NewDraftView(draft), nil
}

func (e *draftEngine) Edit(ctx context.Context, params inbound.EditDraftParams) (*domain.DraftView, error) {
	if len(params.Changes) == 0 {
		return nil, &domain.ValidationError{Reason: "no changes supplied"}
	}
	for _, change := range params.Changes {
		if err := change.Validate(); err != nil {
			return nil, err
		}
	}

	draft, err := e.ownedDraft(ctx, params.DraftID, params.TutorID)
	if err != nil {
		return nil, err
	}

	snapshot := domain.NewDraftView(draft)
	userPrompt, err := buildEditUserPrompt(snapshot, params.Changes)
	if err != nil {
		return nil, err
	}

	raw, err := e.llm.Complete(ctx, outbound.CompletionRequest{
		System:      editSystemPrompt,
		User:        userPrompt,
		Format:      outbound.CompletionFormatJSON,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, &domain.TransientIOError{Op: "roadmap edit call", Err: err}
	}

	data, err := e.parsePlanWithRepair(ctx, raw)
	if err != nil {
		return nil, err
	}

	draft.Data = data
	draft.Version++
	draft.UpdatedAt = time.Now().UTC()
	if err := e.draftStore.Put(ctx, draft, domain.DraftTTL); err != nil {
		return nil, &domain.TransientIOError{Op: "store draft", Err: err}
	}

	e.logger.InfoWithFields("draft edited", map[string]interface{}{
		"draft_id": draft.ID,
		"version":  draft.Version,
		"changes":  len(params.Changes),
	})

	return domain.NewDraftView(draft), nil
}

func (e *draftEngine) Finalize(ctx context.Context, params inbound.FinalizeDraftParams) (*inbound.FinalizeResult, error) {
	draft, err := e.ownedDraft(ctx, params.DraftID, params.TutorID)
	if err != nil {
		return nil, err
	}
	return e.finalizer.Finalize(ctx, draft)
}

func (e *draftEngine) ownedDraft(ctx context.Context, draftID, tutorID string) (*domain.Draft, error) {
	draft, err := e.draftStore.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.TutorID != tutorID {
		return nil, &domain.AccessError{Resource: "draft", ID: draftID}
	}
	return draft, nil
}

// parsePlanWithRepair parses the model output as a roadmap object. On parse
// failure it issues exactly one repair call forcing JSON-only reformatting
// of the same content; a second failure, or any validation failure, is
// terminal.
func (e *draftEngine) parsePlanWithRepair(ctx context.Context, raw string) (domain.RoadmapData, error) {
	data, parseErr := parsePlan(raw)
	if parseErr != nil {
		e.logger.WarnWithFields("plan output failed to parse, issuing repair call", map[string]interface{}{
			"error": parseErr.Error(),
		})
		repaired, err := e.llm.Complete(ctx, outbound.CompletionRequest{
			System:      repairSystemPrompt,
			User:        raw,
			Format:      outbound.CompletionFormatJSON,
			Temperature: 0,
		})
		if err != nil {
			return nil, &domain.TransientIOError{Op: "roadmap repair call", Err: err}
		}
		data, parseErr = parsePlan(repaired)
		if parseErr != nil {
			return nil, &domain.ValidationError{Reason: "plan is not valid JSON even after repair: " + parseErr.Error()}
		}
	}

	data.Normalize()
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func parsePlan(raw string) (domain.RoadmapData, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var data domain.RoadmapData
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func buildGenerateUserPrompt(prompt string, constraints map[string]string) string {
	var b strings.Builder
	b.WriteString("Learning goal: ")
	b.WriteString(prompt)
	if len(constraints) > 0 {
		b.WriteString("\nConstraints:\n")
		keys := make([]string, 0, len(constraints))
		for k := range constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- %s: %s\n", k, constraints[k]))
		}
	}
	return b.String()
}

func buildEditUserPrompt(snapshot *domain.DraftView, changes []domain.DraftChange) (string, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal draft snapshot: %w", err)
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return "", fmt.Errorf("marshal changes: %w", err)
	}
	return fmt.Sprintf("Current roadmap:\n%s\n\nRequested changes:\n%s", snapshotJSON, changesJSON), nil
}
