package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-analyst/internal/analyst/config"
	"golang-stock-analyst/internal/analyst/dto"
	"golang-stock-analyst/internal/analyst/repository"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
)

const (
	finalAnswerMarker = "Final Answer:"
	actionMarker      = "Action:"
	actionInputMarker = "Action Input:"
	observationMarker = "Observation:"
)

// ResearcherService runs the fact-finding stage: a reasoning loop that lets the
// model call tools until it produces a consolidated final answer.
type ResearcherService struct {
	cfg    *config.Config
	logger *logger.Logger
	aiRepo repository.AIRepository
	tools  []Tool
}

// NewResearcherService creates a new ResearcherService.
func NewResearcherService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository, tools []Tool) *ResearcherService {
	return &ResearcherService{
		cfg:    cfg,
		logger: log,
		aiRepo: aiRepo,
		tools:  tools,
	}
}

// reActStep is one parsed model turn in the reasoning loop.
type reActStep struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
}

// Research gathers current facts about the company and returns them as a
// consolidated fact sheet.
func (s *ResearcherService) Research(ctx context.Context, company entity.Company) (*dto.ResearchResult, error) {
	reportURL := company.ReportURL
	if !company.HasReportURL() {
		reportURL = ""
	}
	question := repository.BuildResearchQuestion(company.DisplayName(), reportURL)

	toolLines := make([]string, 0, len(s.tools))
	toolNames := make([]string, 0, len(s.tools))
	for _, tool := range s.tools {
		toolLines = append(toolLines, fmt.Sprintf("%s: %s", tool.Name(), tool.Description()))
		toolNames = append(toolNames, tool.Name())
	}

	var scratchpad strings.Builder
	toolCalls := 0

	for iteration := 1; iteration <= s.cfg.Research.MaxIterations; iteration++ {
		prompt := repository.BuildReActPrompt(toolLines, toolNames, question, scratchpad.String())

		// Stop at the observation marker so the model cannot invent tool results.
		output, err := s.aiRepo.GenerateContent(ctx, prompt, []string{"\n" + observationMarker})
		if err != nil {
			return nil, fmt.Errorf("researcher step %d failed: %w", iteration, err)
		}

		step := parseReActStep(output)

		if step.FinalAnswer != "" {
			s.logger.Info("Research completed",
				logger.StringField("company", company.DisplayName()),
				logger.IntField("iterations", iteration),
				logger.IntField("tool_calls", toolCalls),
			)
			return &dto.ResearchResult{
				Company:     company.DisplayName(),
				Facts:       step.FinalAnswer,
				Iterations:  iteration,
				ToolCalls:   toolCalls,
				CompletedAt: time.Now(),
			}, nil
		}

		if step.Action == "" {
			// Malformed turn: answer with a corrective observation instead of failing.
			s.logger.Warn("Unparseable researcher step", logger.StringField("output", output))
			scratchpad.WriteString(strings.TrimSpace(output))
			scratchpad.WriteString("\n" + observationMarker + " Invalid format. Provide either an Action with Action Input, or a Final Answer.\nThought: ")
			continue
		}

		tool := s.findTool(step.Action)
		var observation string
		if tool == nil {
			observation = fmt.Sprintf("error: unknown tool %q, valid tools are [%s]", step.Action, strings.Join(toolNames, ", "))
		} else {
			toolCalls++
			s.logger.Info("Executing research tool",
				logger.StringField("tool", tool.Name()),
				logger.StringField("input", step.ActionInput),
			)
			result, err := tool.Call(ctx, step.ActionInput)
			if err != nil {
				// Tool errors become observations so the model can route around them.
				observation = "error: " + err.Error()
			} else {
				observation = result
			}
		}

		scratchpad.WriteString(strings.TrimSpace(output))
		scratchpad.WriteString("\n" + observationMarker + " " + observation + "\nThought: ")
	}

	return nil, fmt.Errorf("research for %s did not converge after %d iterations", company.DisplayName(), s.cfg.Research.MaxIterations)
}

func (s *ResearcherService) findTool(name string) Tool {
	name = strings.TrimSpace(name)
	for _, tool := range s.tools {
		if strings.EqualFold(tool.Name(), name) {
			return tool
		}
	}
	return nil
}

// parseReActStep extracts the thought, action and input (or the final answer)
// from one model turn.
func parseReActStep(output string) reActStep {
	var step reActStep

	// A final answer wins even when the model also emitted an action.
	if idx := strings.Index(output, finalAnswerMarker); idx >= 0 {
		step.FinalAnswer = strings.TrimSpace(output[idx+len(finalAnswerMarker):])
		if step.FinalAnswer != "" {
			return step
		}
	}

	actionIdx := strings.Index(output, actionMarker)
	inputIdx := strings.Index(output, actionInputMarker)
	if actionIdx < 0 || inputIdx < actionIdx {
		return step
	}

	step.Thought = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(output[:actionIdx]), "Thought:"))

	actionLine := output[actionIdx+len(actionMarker) : inputIdx]
	step.Action = strings.Trim(strings.TrimSpace(actionLine), "`[]")

	rest := output[inputIdx+len(actionInputMarker):]
	if obsIdx := strings.Index(rest, observationMarker); obsIdx >= 0 {
		rest = rest[:obsIdx]
	}
	step.ActionInput = strings.Trim(strings.TrimSpace(rest), "\"'`")

	return step
}
