package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const systemPrompt = "You are a professional resume writer. You answer with exactly what the user asks for and nothing else."

// OpenAI completes prompts through the chat completions API. JSON mode is
// used when JSON is set.
type OpenAI struct {
	client *openai.Client
	model  string
	JSON   bool
}

func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	client := openai.NewClient(opts...)
	return &OpenAI{client: &client, model: model}
}

// WithJSON returns a copy that asks the API for a JSON object response.
func (o *OpenAI) WithJSON() *OpenAI {
	c := *o
	c.JSON = true
	return &c
}

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	const provider = "openai"
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       o.model,
		Temperature: openai.Float(0.2),
	}
	if o.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", statusError(provider, apiErr.StatusCode, err)
		}
		return "", transportError(provider, err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", &CompletionError{Kind: KindOther, Provider: provider, Err: ErrNoContent}
	}
	return completion.Choices[0].Message.Content, nil
}
