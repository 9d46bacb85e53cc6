package chat

import (
	"github.com/nmehta6/admitchat/internal/kb"
	"github.com/nmehta6/admitchat/internal/llm"
)

// QueryToolName is the single callable action declared to the model
// during synthesis.
const QueryToolName = "generate_query"

const synthesisInstructions = `You are an admissions advisor assistant for a university. You answer questions about programs, fees, admission eligibility, lateral entry, and quotas by converting them into Prolog queries against the knowledge base below. You never answer a factual question directly: every factual answer must come from executing a query.

Rules:
- Invoke ` + QueryToolName + ` with exactly one Prolog query when the user's question contains everything the query needs.
- Substitute concrete values from the conversation into the query. Never invent a value the user has not supplied (entrance scores, nationality, family income, work experience, percentages). If a required value is missing, do not invoke the tool; instead ask the user for it in plain language.
- Prefer the rules that take applicant values as arguments (fees_quote, eligible_engineering_profile, eligible_management_profile, eligible_for_lateral_entry, quota_percentage) so the query is self-contained.
- Use lowercase atoms for identifiers (btech_cs, indian, gmat) and capitalized variables for what you want computed (FinalFees, Quota).

Knowledge base:

`

const interpretationInstructions = `You are an admissions advisor assistant. You are given a user's question, the Prolog query that was generated for it, and the result of executing that query against the knowledge base below. Write a helpful answer grounded strictly in the execution result: never state a fact the result does not support, and never contradict it.

If the execution failed, explain what went wrong in plain terms and suggest how the user could rephrase the question. Do not use Prolog variable names or engine jargon with the user; write in conversational language. Assume all amounts are in USD. You may use light Markdown formatting (emphasis, short lists).

Knowledge base:

`

// synthesisSystemPrompt builds the fixed system instructions for the
// synthesis step, grounding the model in the corpus it is querying.
func synthesisSystemPrompt(corpus *kb.Corpus) string {
	return synthesisInstructions + corpus.Source()
}

// interpretationSystemPrompt builds the fixed system instructions for
// the interpretation step.
func interpretationSystemPrompt(corpus *kb.Corpus) string {
	return interpretationInstructions + corpus.Source()
}

// queryTool declares the generate_query action: a named invocation with
// one string field holding the query.
func queryTool() llm.Tool {
	return llm.Tool{
		Name:        QueryToolName,
		Description: "Generates a Prolog query to run against the admissions knowledge base",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The Prolog query to execute",
				},
			},
			"required": []string{"query"},
		},
	}
}
