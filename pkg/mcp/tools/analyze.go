package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/analysis"
	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/kb"
	"github.com/labelscan/labelscan-engine/pkg/models"
)

// AnalyzeToolDeps contains dependencies for the analysis tools.
type AnalyzeToolDeps struct {
	Resolver *analysis.Resolver
	KB       *kb.Store
	Logger   *zap.Logger
}

// RegisterAnalyzeTools registers the ingredient analysis MCP tools.
func RegisterAnalyzeTools(s *server.MCPServer, deps *AnalyzeToolDeps) {
	registerAnalyzeIngredientsTool(s, deps)
	registerLookupAdditiveTool(s, deps)
}

// registerAnalyzeIngredientsTool adds the analyze_ingredients tool for
// full-label risk analysis.
func registerAnalyzeIngredientsTool(s *server.MCPServer, deps *AnalyzeToolDeps) {
	tool := mcp.NewTool(
		"analyze_ingredients",
		mcp.WithDescription(
			"Analyze a free-text ingredient list for food additive risks. "+
				"Accepts English or Chinese ingredient text with comma, semicolon, "+
				"or newline separators and parenthetical sub-ingredients. "+
				"Returns per-ingredient risk levels, child safety guidance, an overall "+
				"verdict, and a processed-food score from 1 to 10. "+
				"Example: analyze_ingredients(ingredient_text='water, aspartame, citric acid').",
		),
		mcp.WithString(
			"ingredient_text",
			mcp.Required(),
			mcp.Description("Raw ingredient list text, e.g. 'water, sugar, sodium benzoate'"),
		),
		mcp.WithString(
			"language",
			mcp.Description("Preferred language for notes and summary: 'en' or 'zh' (default 'en')"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("ingredient_text")
		if err != nil {
			return nil, err
		}

		lang := models.LanguageEn
		if langVal, ok := req.Params.Arguments.(map[string]any)["language"]; ok {
			if langStr, ok := langVal.(string); ok {
				lang = models.Language(langStr).Normalize()
			}
		}

		result, err := deps.Resolver.Analyze(ctx, analysis.AnalyzeRequest{
			IngredientText: text,
			Language:       lang,
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrNoInput) {
				return mcp.NewToolResultError("ingredient_text must not be empty"), nil
			}
			deps.Logger.Error("Ingredient analysis failed", zap.Error(err))
			return nil, fmt.Errorf("analysis failed: %w", err)
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}

		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// additiveLookup is the lookup_additive tool response.
type additiveLookup struct {
	Query      string                 `json:"query"`
	Matched    bool                   `json:"matched"`
	Safelisted bool                   `json:"safelisted"`
	Record     *models.AdditiveRecord `json:"record,omitempty"`
}

// registerLookupAdditiveTool adds the lookup_additive tool for direct
// knowledge base lookups of a single term.
func registerLookupAdditiveTool(s *server.MCPServer, deps *AnalyzeToolDeps) {
	tool := mcp.NewTool(
		"lookup_additive",
		mcp.WithDescription(
			"Look up a single ingredient term in the additive knowledge base. "+
				"Matches against canonical names, aliases, and E-numbers in English "+
				"and Chinese. Returns the full additive record when found, or whether "+
				"the term is a safelisted whole food. "+
				"Example: lookup_additive(term='E951') returns the aspartame record.",
		),
		mcp.WithString(
			"term",
			mcp.Required(),
			mcp.Description("Ingredient term to look up, e.g. 'aspartame', 'E102', '阿斯巴甜'"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term, err := req.RequireString("term")
		if err != nil {
			return nil, err
		}

		term = strings.TrimSpace(term)
		if term == "" {
			return mcp.NewToolResultError("term parameter cannot be empty"), nil
		}

		result := additiveLookup{Query: term}
		if record := deps.KB.Match(term); record != nil {
			result.Matched = true
			result.Record = record
		} else if deps.KB.Safelisted(term) {
			result.Safelisted = true
		}

		jsonResult, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}

		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
