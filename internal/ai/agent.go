package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-quote-backend/internal/database"
	"go-quote-backend/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a question about the caller's quote pipeline.
// Every tool is scoped to userID so the assistant can never read
// another account's quotes.
func RunAgent(userMessage string, userID uint, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the Tekna quoting assistant.

	RULES:
	1. LOOKUP: If the user refers to a quote by client or project name, you must NOT ask them for the code. Instead:
	   - Call 'list_quotes' to find the matching quote code.
	   - Call 'get_quote' using that code.

	2. READ: If a user asks for the TOTAL, STATUS, or DETAILS of a quote:
	   - You MUST call 'get_quote' with its code (e.g. "Q-0012").
	   - Then read the JSON and answer the user.

	3. PIPELINE: If the user asks about overall value, counts, or how many quotes are pending/approved/rejected, use 'get_quote_stats'.

	USER: %s`, today, userMessage)

	// --- DEFINE TOOLS ---
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "list_quotes",
					Description: "List the user's most recent quotes. Use this to find a quote's code from its client name, project, or status.",
				},
				{
					Name:        "get_quote",
					Description: "Get the full details of one quote using its human-readable code",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"quote_id": {Type: genai.TypeString, Description: "Quote code, e.g. Q-0001"},
						},
						Required: []string{"quote_id"},
					},
				},
				{
					Name:        "get_quote_stats",
					Description: "Get pipeline totals: quote count, total value, and counts by status.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- HANDLE TOOL CALLS ---
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			// TOOL 1: List Quotes
			if funcCall.Name == "list_quotes" {
				finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
					Name:     "list_quotes",
					Response: map[string]interface{}{"quotes": listQuotesJSON(userID)},
				})
				if err != nil {
					return "", err
				}
				return handleRecursiveToolCalls(ctx, session, userID, finalResp), nil
			}

			// TOOL 2: Get Quote
			if funcCall.Name == "get_quote" {
				return executeGetQuote(ctx, session, userID, funcCall), nil
			}

			// TOOL 3: Pipeline Stats
			if funcCall.Name == "get_quote_stats" {
				return executeQuoteStats(ctx, session, userID), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

func handleRecursiveToolCalls(ctx context.Context, session *genai.ChatSession, userID uint, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "get_quote" {
				return executeGetQuote(ctx, session, userID, funcCall)
			}
		}
	}
	return printResponse(resp)
}

func listQuotesJSON(userID uint) string {
	type SimpleQuote struct {
		QuoteID    string  `json:"quoteId"`
		ClientName string  `json:"clientName"`
		Project    string  `json:"project"`
		Status     string  `json:"status"`
		GrandTotal float64 `json:"grandTotal"`
	}

	var quotes []models.Quote
	database.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(20).
		Find(&quotes)

	var simpleList []SimpleQuote
	for _, q := range quotes {
		simpleList = append(simpleList, SimpleQuote{
			QuoteID:    q.QuoteID,
			ClientName: q.ClientName,
			Project:    q.Project,
			Status:     q.Status,
			GrandTotal: q.GrandTotal,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)
	return string(jsonBytes)
}

func executeGetQuote(ctx context.Context, session *genai.ChatSession, userID uint, funcCall genai.FunctionCall) string {
	code, _ := funcCall.Args["quote_id"].(string)

	var quote models.Quote
	err := database.DB.Where("user_id = ? AND quote_id = ?", userID, code).First(&quote).Error

	response := map[string]interface{}{}
	if err != nil {
		response["status"] = "Quote code not found"
	} else {
		response["quoteId"] = quote.QuoteID
		response["clientName"] = quote.ClientName
		response["project"] = quote.Project
		response["status"] = quote.Status
		response["windows"] = len(quote.Windows)
		response["subtotal"] = quote.Subtotal
		response["cgst"] = quote.Cgst
		response["sgst"] = quote.Sgst
		response["packingCharges"] = quote.PackingCharges
		response["grandTotal"] = quote.GrandTotal
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_quote",
		Response: response,
	})
	return printResponse(finalResp)
}

func executeQuoteStats(ctx context.Context, session *genai.ChatSession, userID uint) string {
	stats, err := database.GetQuoteStats(userID)
	if err != nil {
		return "Error calculating quote stats."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_quote_stats",
		Response: map[string]interface{}{
			"total_quotes":   stats.TotalQuotes,
			"pipeline_value": stats.PipelineValue,
			"pending":        stats.Pending,
			"approved":       stats.Approved,
			"rejected":       stats.Rejected,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
