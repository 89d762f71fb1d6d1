package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ledger-insight/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Answer is the structured reply to an ask-your-data question. Grounded
// reports whether the answer was derived from the provided report tables;
// when false the model could not find the figure and says so instead of
// inventing one.
type Answer struct {
	Text      string   `json:"text" jsonschema_description:"The answer, citing the figures used"`
	Grounded  bool     `json:"grounded" jsonschema_description:"True when the answer is derived only from the provided tables"`
	Citations []string `json:"citations,omitempty" jsonschema_description:"Table titles the answer draws from"`
}

// AgentService answers natural-language questions about assembled reports.
type AgentService interface {
	AnswerDataQuestion(ctx context.Context, question string, snapshots []core.TableSnapshot) (*Answer, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// AnswerDataQuestion sends the question plus the report tables for the
// selected period to the model and parses the structured reply. The
// model sees only the snapshot tables — it never queries the ledger.
func (a *Agent) AnswerDataQuestion(ctx context.Context, question string, snapshots []core.TableSnapshot) (*Answer, error) {
	prompt := fmt.Sprintf(`You are a financial analyst assistant.
Answer the user's question using ONLY the report tables below.
Rules:
1. Use only figures present in the tables. Never estimate or invent numbers.
2. If the tables do not contain the answer, say so and set grounded to false.
3. Quote amounts exactly as they appear, naming the table each comes from.
4. Keep the answer short and factual.

%s

Question: %s`, renderSnapshots(snapshots), question)

	// Reflect the answer schema so the model is forced into our shape.
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "report_answer",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A grounded answer to a question about financial report tables"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var answer Answer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &answer, nil
}

// renderSnapshots flattens report tables into pipe-delimited text blocks.
func renderSnapshots(snapshots []core.TableSnapshot) string {
	var b strings.Builder
	for _, snap := range snapshots {
		fmt.Fprintf(&b, "## %s\n", snap.Title)
		b.WriteString(strings.Join(snap.Columns, " | "))
		b.WriteString("\n")
		for _, row := range snap.Rows {
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Answer
	return reflector.Reflect(v)
}
